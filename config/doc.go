/*
Package config loads the datastore configuration.

Configuration comes from YAML files merged in order, then from an optional
.env file and GRIDSTORE_* environment variables:

	dialect: mongodb
	host: db.internal
	database: shop
	username: app
	connect_timeout: 5s
	association_storage:
	  default: ASSOCIATION_DOCUMENT
	  entities:
	    Person: IN_ENTITY
	  associations:
	    Person.cars: ASSOCIATION_DOCUMENT_PER_ASSOCIATION
	batching:
	  coalesce: true

Usage:

	cfg, err := config.Load("gridstore.yaml")
	if err == nil {
	    err = cfg.ApplyEnvironment()
	}
	if err == nil {
	    err = cfg.Validate() // every problem, combined with multierr
	}
*/
package config
