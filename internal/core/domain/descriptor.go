package domain

import (
	"fmt"
	"strings"
)

// The three resource directives rewritten on every placement attempt.
const (
	directivePartition = "#SBATCH --partition="
	directiveNTasks    = "#SBATCH --ntasks="
	directiveTime      = "#SBATCH --time="
)

// RewriteDescriptor returns a copy of a submission descriptor with the
// partition, core count and wall-time directives replaced by the queue's
// resource profile. It is a pure function; writing the result back to disk is
// the caller's job. All three directives must be present in the input.
func RewriteDescriptor(content string, queue QueueDescriptor) (string, error) {
	lines := strings.Split(content, "\n")
	var foundPartition, foundNTasks, foundTime bool

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, directivePartition):
			lines[i] = directivePartition + queue.Name
			foundPartition = true
		case strings.HasPrefix(trimmed, directiveNTasks):
			lines[i] = fmt.Sprintf("%s%d", directiveNTasks, queue.Cores)
			foundNTasks = true
		case strings.HasPrefix(trimmed, directiveTime):
			lines[i] = directiveTime + queue.WalltimeSpec()
			foundTime = true
		}
	}

	if !foundPartition || !foundNTasks || !foundTime {
		return "", fmt.Errorf("descriptor is missing resource directives (partition=%v ntasks=%v time=%v)",
			foundPartition, foundNTasks, foundTime)
	}
	return strings.Join(lines, "\n"), nil
}
