/*
Package executor runs batches of independent external commands.

	+-----------+     +-------------------+
	|   Jobs    | --> |  PollingScheduler |
	| (batch)   |     |  or WorkerPool    |
	+-----------+     +---------+---------+
	                            |
	                  +---------+---------+
	                  |    BatchResult    |
	                  +-------------------+

🎯 Purpose:
- Executes synthesized commands under a concurrency bound
- Tracks each job's WAITING -> RUNNING -> COMPLETE lifecycle
- Isolates per-job failures: one failing command never cancels siblings

🔄 Strategies:
1. PollingScheduler: FIFO admission, non-blocking polls, one sleep per cycle
2. WorkerPool: fixed workers draining a shared queue, result collection
3. RunSequential: one at a time, deliberately fail-fast

📝 Design Philosophy:
The control loop owns the job state table exclusively, so neither strategy
needs locking beyond what the process handles themselves carry. Transitions
are monotonic; a job is never retried or reverted. The clock is injectable
so scheduling tests run without wall-clock waits.

🚧 Known limitation:
A command that never terminates stalls the polling scheduler forever. There
is no timeout or forced cancellation.
*/
package executor
