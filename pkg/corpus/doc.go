/*
Package corpus stores the source documents a Markov model is trained on.

Documents are kept in a SQLite database under a unique name and are handed to
the model in insertion order, so retraining from the store always reproduces
the same corpus. Only training input is stored; trained tables live in memory.
*/
package corpus
