package task

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskd/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Call Bob", Completed: false},
		{ID: "2", Title: "Buy milk", Completed: true},
		{ID: "3", Title: "call Alice", Completed: false},
		{ID: "4", Title: "Water plants", Completed: true},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestDerive_FilterModes(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Derive(tasks, FilterAll, "")))
	assert.Equal(t, []string{"1", "3"}, ids(Derive(tasks, FilterActive, "")))
	assert.Equal(t, []string{"2", "4"}, ids(Derive(tasks, FilterCompleted, "")))
}

func TestDerive_ActiveCompletedPartition(t *testing.T) {
	tasks := sampleTasks()

	active := Derive(tasks, FilterActive, "")
	completed := Derive(tasks, FilterCompleted, "")

	assert.Len(t, active, len(tasks)-len(completed))
	seen := map[string]bool{}
	for _, task := range append(active, completed...) {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
	assert.Len(t, seen, len(tasks))
}

func TestDerive_QueryIsCaseInsensitiveTitleOnly(t *testing.T) {
	desc := "call the plumber"
	tasks := []model.Task{
		{ID: "1", Title: "Call Bob"},
		{ID: "2", Title: "Buy milk", Description: &desc},
	}

	assert.Equal(t, []string{"1"}, ids(Derive(tasks, FilterAll, "CALL")))
	assert.Equal(t, []string{"1"}, ids(Derive(tasks, FilterAll, "call")))
	// Description never matches.
	assert.Empty(t, Derive(tasks, FilterAll, "plumber"))
}

func TestDerive_FilterAndQueryCompose(t *testing.T) {
	tasks := sampleTasks()

	got := Derive(tasks, FilterActive, "call")
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = Derive(tasks, FilterCompleted, "call")
	assert.Empty(t, got)
}

func TestDerive_PreservesOrderAndInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)

	got := Derive(tasks, FilterAll, "a")
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
	assert.Equal(t, before, ids(tasks))
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterActive, ParseFilter("active"))
	assert.Equal(t, FilterCompleted, ParseFilter(" Completed "))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}
