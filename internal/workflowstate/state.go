package workflowstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/temirov/overseer/internal/filesystem"
)

const (
	workflowStateReadErrorTemplateConstant  = "unable to read workflow state %s: %w"
	workflowStateParseErrorTemplateConstant = "unable to parse workflow state %s: %w"
)

var nullLiteral = []byte("null")

// ErrWorkflowStateMissing indicates the workflow state file does not exist.
var ErrWorkflowStateMissing = errors.New("workflow state file not found")

// AgentIdentifier names an agent mode such as quality-assurance-coordinator.
type AgentIdentifier string

// Task is a single unit of work tracked by the workflow engine.
type Task struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Title      string          `json:"title"`
	AssignedTo AgentIdentifier `json:"assigned_to"`
	Status     string          `json:"status,omitempty"`
}

// UnmarshalJSON decodes a task leniently: scalar fields stored as numbers or booleans
// are kept as their literal text so one odd entry never rejects the whole file.
func (task *Task) UnmarshalJSON(content []byte) error {
	var fields struct {
		ID         json.RawMessage `json:"id"`
		Title      json.RawMessage `json:"title"`
		AssignedTo json.RawMessage `json:"assigned_to"`
		Status     json.RawMessage `json:"status"`
	}
	if decodeError := json.Unmarshal(content, &fields); decodeError != nil {
		return decodeError
	}
	*task = Task{
		ID:         fields.ID,
		Title:      scalarText(fields.Title),
		AssignedTo: AgentIdentifier(scalarText(fields.AssignedTo)),
		Status:     scalarText(fields.Status),
	}
	return nil
}

// IDString renders the task identifier whether it was stored as a string or a number.
func (task Task) IDString() string {
	return scalarText(task.ID)
}

func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return ""
	}
	var textual string
	if json.Unmarshal(trimmed, &textual) == nil {
		return textual
	}
	return string(trimmed)
}

// State is an immutable snapshot of the three task buckets.
type State struct {
	PendingTasks   []Task `json:"pending_tasks"`
	ActiveTasks    []Task `json:"active_tasks"`
	CompletedTasks []Task `json:"completed_tasks"`
}

// AllTasks returns pending, active, and completed tasks in that order.
func (state State) AllTasks() []Task {
	allTasks := make([]Task, 0, state.TotalCount())
	allTasks = append(allTasks, state.PendingTasks...)
	allTasks = append(allTasks, state.ActiveTasks...)
	allTasks = append(allTasks, state.CompletedTasks...)
	return allTasks
}

// TotalCount returns the number of tasks across every bucket.
func (state State) TotalCount() int {
	return len(state.PendingTasks) + len(state.ActiveTasks) + len(state.CompletedTasks)
}

// ProgressPercent returns completed/total*100, or 0 when there are no tasks.
func (state State) ProgressPercent() float64 {
	total := state.TotalCount()
	if total == 0 {
		return 0
	}
	return float64(len(state.CompletedTasks)) / float64(total) * 100
}

// Parse decodes workflow state JSON content.
func Parse(content []byte) (State, error) {
	var state State
	if decodeError := json.Unmarshal(content, &state); decodeError != nil {
		return State{}, decodeError
	}
	return state, nil
}

// Load reads and decodes the workflow state file at filePath.
// A missing file yields an error matching ErrWorkflowStateMissing.
func Load(fileSystem filesystem.FileSystem, filePath string) (State, error) {
	content, readError := filesystem.Resolve(fileSystem).ReadFile(filePath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return State{}, fmt.Errorf(workflowStateReadErrorTemplateConstant, filePath, errors.Join(ErrWorkflowStateMissing, readError))
		}
		return State{}, fmt.Errorf(workflowStateReadErrorTemplateConstant, filePath, readError)
	}

	state, parseError := Parse(content)
	if parseError != nil {
		return State{}, fmt.Errorf(workflowStateParseErrorTemplateConstant, filePath, parseError)
	}
	return state, nil
}
