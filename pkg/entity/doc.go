// Package entity describes the in-memory records handed to the JSON:API view.
// Controllers can pass plain Go structs (fields are read through their JSON
// encoding) or values implementing Entity, such as the map-backed Record used
// when entity types are only known at runtime. Every entity has a Kind: the
// identity the encoder dispatches on when it looks up the schema for an
// instance.
package entity
