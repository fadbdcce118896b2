// Package config provides configuration loading for formbind.
//
// Configuration lives in formbind.json or formbind.yaml in the working
// directory. Every field is optional; a missing file yields the defaults,
// which reproduce the hard-coded behavior of the form (100ms debounce,
// "@gmail.com" suffix, pass-through validation, stub username service).
//
// # Configuration File Structure
//
//	debounce: 100ms
//	requiredSuffix: "@gmail.com"
//	strictValidation: false
//	log:
//	  level: info
//	  format: text
//	server:
//	  addr: ":8080"
//	  allowedOrigins: ["http://localhost:3000"]
//	backend:
//	  kind: s3          # stub | s3 | mysql
//	  timeout: 2s
//	  s3:
//	    bucket: usernames
//	    prefix: taken/
//	    region: us-east-1
//	  mysql:
//	    dsn: "user:pass@tcp(localhost:3306)/formbind?parseTime=true"
//	    autoMigrate: true
//
// # Environment Overrides
//
// FORMBIND_BACKEND, FORMBIND_MYSQL_DSN, FORMBIND_S3_BUCKET and
// FORMBIND_LOG_LEVEL override the matching fields after the file is read.
package config
