// Package emotes replaces $name tokens in messages with custom emoji.
//
// A message is scanned for tokens, the tokens are resolved against registered emotes,
// and every match is turned into a temporary guild emoji. The rewritten message is posted
// through a channel webhook that looks like the original author, after which the original
// message and the temporary emoji are deleted.
package emotes
