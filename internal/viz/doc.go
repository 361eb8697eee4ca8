// Package viz renders flights in the terminal: an altitude line plot
// and an overhead scatter of the flight path with flip markers.
package viz
