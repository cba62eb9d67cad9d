// Package services hosts the external collaborator clients and the shared
// error and context conventions they follow. The generation core only ever
// sees the narrow Generator interfaces defined by the subpackages, so fakes
// can stand in for the real services in tests.
package services
