package main

import (
	"github.com/CPU-commits/CareerNest/feed/server"
)

// Feed worker: keeps the search indices and the latest cache in sync with
// listing events and rebuilds the indices on a schedule.
func main() {
	server.Init()
}
