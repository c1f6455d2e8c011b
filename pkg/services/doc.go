// Package services inspects the Snips services installed on this machine.
//
// A service is installed when "<service> --version" runs, and running when a
// process with its name exists in /proc. Versions are read from the
// --version output, for example:
//
//	snips-nlu 1.1.2 (0.62.3) [model_version: 0.19.0]
package services
