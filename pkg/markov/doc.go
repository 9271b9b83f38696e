/*
Package markov provides an in-memory, second-order Markov chain text
generator.

A Model is trained on a corpus string (or a set of io.Readers read as one
corpus). The corpus is split into lower-cased words and line-break tokens, and
every pair of consecutive tokens is mapped to the list of tokens that followed
it. Generation starts from a seed pair and repeatedly samples a continuation of
the last two tokens.

Training replaces the whole table at once; the table itself is immutable, so a
trained Model may be queried from many goroutines. Randomness comes from an
explicit rand.Source, which makes output reproducible under a fixed seed.
*/
package markov
