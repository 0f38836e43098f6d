/*
Package session coordinates access to persisted conversations.

A Manager serializes turns per conversation id with a ref-counted in-process
mutex and, when configured, a distributed lock shared by every replica. It also
owns get-or-create: stores only report domain.ErrSessionNotFound.
*/
package session
