// Package auth holds the credential primitives of the request pipeline:
// PasswordHasher for one-way salted password storage, TokenCodec for
// issuing and verifying stateless session tokens, and the two
// authorization policies (SelfOrAdmin, AdminOnly).
//
// Nothing here touches persistence. The types are safe for concurrent use
// once constructed; their configuration (cost, secret, TTL) is fixed at
// construction time.
package auth
