// Package model contains the shared interfaces and data structures.
//
// # Criteria for adding a type to this package
//
// This package should contain two kinds of types:
//
// 1. interfaces that are shared by several packages, with the
// objective of decoupling unrelated code and making unit testing
// easier (e.g., the [HTTPExchanger] used by the bouncer client);
//
// 2. pieces of data that cross package boundaries (e.g., the
// [BouncerRecord] describing a collector or a test helper).
//
// In general, this package should not contain logic, unless
// this logic is strictly related to data structures and we
// cannot implement this logic elsewhere.
//
// # Content of this package
//
// - bouncer.go: bouncer records, helper names, and defaults;
//
// - httpexchange.go: the HTTP exchange capability consumed by the
// bouncer client along with its transport error codes;
//
// - keyvaluestore.go: generic definition of a key-value store;
//
// - logger.go: generic definition of an apex/log compatible logger.
package model
