// Package config loads the YAML mapping configuration.
//
//	version: "1"
//	access_mode: both          # fields | accessors | both
//	classes:
//	  - type: store.Account
//	    access_mode: accessors # overrides the file mode for this class
//	    ignore: [cache]
//	    columns:
//	      owner: owner_name
//
// Class entries are matched by the qualified class name ("store.Account").
package config
