// Package user contains the implementation of interacting with the MongoDB User collection.
// The UserManager struct is responsible for interacting with the User collection. It is CRUD for the user collection.
// The User struct is used to represent a user, their profile fields, and their group memberships and invites.
// Passwords are stored bcrypt-hashed and never serialized to JSON.
package user
