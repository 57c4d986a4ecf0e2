// Package profile loads the optional HCL analysis profile. A profile can
// override the logging flags and declare warning thresholds for report
// metrics; it never changes the report itself.
package profile
