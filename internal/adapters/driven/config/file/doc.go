// Package file provides TOML-based configuration loading.
//
// Configuration lives in a single TOML file (default
// ~/.harvest/config.toml) describing the source tree, chunking, embedding
// and persistence settings. Secrets are read from the environment;
// a .env file in the working directory is honoured by the entrypoint.
package file
