// Command socialmediagen builds Instagram carousels from a prompt. Slide
// text and background images come from two external AI services; the
// project lives in a workspace directory so commands compose across
// invocations.
package main
