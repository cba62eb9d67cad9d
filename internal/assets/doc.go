// Package assets implements the media-asset port: storing generated
// background references per canvas and removing them when a canvas is
// deleted or its background is regenerated.
package assets
