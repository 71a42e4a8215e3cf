// Package partition divides a job's candidate files into work units for parallel tasks.
package partition

// WorkUnit is the contiguous run of candidate files handed to one task.
type WorkUnit struct {
	// Index is the position of the unit in split order
	Index int
	Files []string
}

// UnitSize returns the number of files per unit when splitting total files into
// adviceNumber units. It is never less than 1.
func UnitSize(total, adviceNumber int) int {
	if adviceNumber < 1 {
		adviceNumber = 1
	}
	size := total / adviceNumber
	if size < 1 {
		return 1
	}
	return size
}

// Split partitions files into contiguous units of UnitSize files, with the last unit
// absorbing any remainder. The concatenation of the returned units is files.
// adviceNumber must be at least 1; this is checked by the caller.
func Split(files []string, adviceNumber int) []WorkUnit {
	if len(files) == 0 {
		return nil
	}
	size := UnitSize(len(files), adviceNumber)
	count := len(files) / size

	units := make([]WorkUnit, 0, count)
	for i := 0; i < count; i++ {
		begin := i * size
		end := begin + size
		if i == count-1 {
			end = len(files)
		}
		// clip capacity so appending to one unit can never write into the next
		units = append(units, WorkUnit{Index: i, Files: files[begin:end:end]})
	}
	return units
}

// SplitPerFile gives every file its own unit.
func SplitPerFile(files []string) []WorkUnit {
	return Split(files, len(files))
}
