// Package player drives timed playback of decoded GIF animations.
//
// A Player owns one canvas and one schedule: load a source, then
// play/pause/stop/seek it. Frame-change, completion and error
// callbacks are delivered in order from a dispatch goroutine, never
// from inside a player call. Players are not reusable after Dispose;
// independent playbacks need independent players.
package player
