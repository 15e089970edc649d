// Package services contains the implementation of all services used by the web server.
//
// The services are responsible for interacting with the database and performing anything that is not strictly HTTP-related.
// The services are injected into the web server, and are used to handle requests dispatched by it.
//
// Current services include:
//   - QueueService:
//     The queue engine. Keeps the per-owner queues, the shared media cache, and the numQueues
//     popularity counters mutually consistent (best-effort) across concurrent requests
//   - UserService:
//     User lifecycle orchestration: signup and deletion with six-way personal queue fan-out
//   - GroupService:
//     Group and invitation lifecycle orchestration: shared queue creation, cascading deletes,
//     and membership fan-out/fan-in across a group's queues
//   - EventService:
//     An ampq 0.9.1 publisher for the queue-activity analytics stream
package services
