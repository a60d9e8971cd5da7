// Package config loads the YAML configuration of a data source.
//
//	dialect: mysql            # mysql | postgres | sqlite
//	write:
//	  dsn: "app:${DB_PASSWORD}@tcp(db:3306)/shop?parseTime=true"
//	  max_open_conns: 10
//	  max_idle_conns: 2
//	  conn_max_lifetime: 5m
//	read:
//	  dsn: "app:${DB_PASSWORD}@tcp(replica:3306)/shop?parseTime=true"
//	stats:
//	  slow_threshold: 200ms
//	  log_slow: true
//	debug: false
//
// Environment variables in DSNs are expanded. The read section is optional
// and defaults to the write section.
package config
