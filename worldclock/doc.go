// Package worldclock computes what a world clock shows for one reference
// instant: the local time and UTC offset of a list of zones, the zones that
// share each offset, and the date daylight saving time next changes.
//
// The pipeline is
//
//	Resolver.Resolve    free text -> instant
//	BuildClusters       zone universe -> offset -> zones
//	Calculator.OffsetAt zone, instant -> offset, DST flag, local time
//	TransitionFinder    zone, instant -> next DST change date
//	Assembler.Rows      all of the above -> report rows
//
// Only Resolve with empty text reads the current time, through a Clock.
// Everything else is a function of the instant and the zone database.
package worldclock
