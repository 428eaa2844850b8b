// Command stemgate separates a song into stems with an external separator
// and removes bleed and noise from each stem with an adaptive gate.
//
// Usage:
//
//	stemgate run song.mp3 [more files...]
//	stemgate gate in.wav out.wav --threshold -45
//	stemgate thresholds
//	stemgate check
//	stemgate config init | show
package main
