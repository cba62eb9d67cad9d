// Package imagegen calls the background-image generation service. Each call
// is fire-once: the task queue owns pacing and never retries a task.
package imagegen
