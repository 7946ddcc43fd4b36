/*
Package transcoder defines the boundary to the texture transcoder.

The transcoder itself is an external capability. A Backend performs its
one-time setup and yields a Factory; the Factory opens a Session over raw
container bytes. A Session answers per-(image, level) queries, transcodes one
level into a caller-supplied buffer and must be released with Close followed
by Delete.

Loader gates session creation on initialization: CreateSession returns nil
until Initialize has completed successfully.
*/
package transcoder
