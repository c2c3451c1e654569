// Package config loads weft.yaml, the configuration of the weft CLI.
//
// The file is optional; every field has a default.
//
// # Configuration File Structure
//
//	engine:
//	  scheduler: loop      # loop | manual
//	  slot_budget: 50ms    # loop: deadline after a unit is requested
//	  slot_delay: 1ms      # loop: wait before a unit runs
//	  manual_budget: 0     # manual: fibers per slot, 0 = unlimited
//	log:
//	  level: info          # debug | info | warn | error
//	  format: text         # text | json
//	metrics:
//	  enabled: true
//	  namespace: weft
//	  path: /metrics
//	server:
//	  addr: ":8080"
//
// # Usage
//
//	cfg, err := config.LoadOptional(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
