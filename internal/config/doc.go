// Package config holds the configuration for a notemd export run.
//
// Configuration is assembled from three layers, strongest first:
//  1. CLI flags
//  2. the .notemd YAML file (explicit path, working directory, XDG config
//     home, or home directory)
//  3. compiled-in defaults
//
// Design decision: We use a single flat Config struct populated before the
// run starts and passed by dependency injection. No component reads flags,
// environment variables, or files after startup, which keeps runs
// reproducible from the Config value alone.
package config
