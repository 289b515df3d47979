// Package cli implements the empire command-line front end with cobra.
//
// It stands in for the desktop shell's command dispatch: every command maps
// onto one vault or cache operation and reports failures as a single
// descriptive line on stderr.
//
// Commands
//
//	empire ping
//	empire version
//	empire token store|get|delete|has|status <identity>
//	empire db migrate|status|pending
//	empire settings list|get <key>|set <key> <json-value>
//
// Global flags (-c/--config, -d/--db, -s/--service, -l/--log-level) are read
// by internal/config from the raw argument list.
package cli
