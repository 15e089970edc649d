// Package common holds the request structs shared between the web layer and its
// validators. Struct tags drive parsing (json, params, query) and validation.
package common
