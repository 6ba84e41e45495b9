// Package repl runs contacts-cli interactively.
//
// Every line is split into arguments and handed to an Executor, which runs
// it against one long-lived session. The prompt shows the current
// location. A line ending in "?" lists completions for its prefix.
package repl
