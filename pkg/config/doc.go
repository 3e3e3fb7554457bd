// Package config loads application configuration from environment variables.
//
// # Overview
//
// All settings are read from REGIPULSE_* environment variables with
// sensible defaults, so a bare `regipulse` invocation serves the bundled
// synthetic dataset on port 8080. Load validates the result and fails
// fast on inconsistent settings such as an unknown data source type or
// a csv source without a path.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
//
// # Related Packages
//
//   - pkg/datasource: providers selected by DataSourceConfig.Type
//   - pkg/resultcache: sized by CacheConfig
package config
