package domain

import (
	"fmt"
	"time"
)

// QueueDescriptor is one scheduler partition the manager may place jobs on.
// The caller supplies an ordered list; order defines placement priority
// (first fit, not best fit). A Limit of zero disables the queue without
// removing it from the priority list.
type QueueDescriptor struct {
	Name     string
	Limit    int
	Cores    int
	Walltime time.Duration
	// Cluster is empty for partitions on the default cluster. Partitions
	// living on a secondary cluster carry its name so occupancy queries and
	// submissions are routed correctly.
	Cluster string
}

// WalltimeSpec renders the wall-time cap in the scheduler's D-HH:MM:SS form.
func (q QueueDescriptor) WalltimeSpec() string {
	d := q.Walltime
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := (d - minutes*time.Minute) / time.Second

	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
