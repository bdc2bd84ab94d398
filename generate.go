//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/continuity --repository.default-branch main --repository.path /

// Package continuity runs a self-sustaining stream of thoughts: on a schedule
// it asks a language model to continue from its recent thoughts, stores the
// answer, renders it to a static site and commits it to git as memory.
package continuity
