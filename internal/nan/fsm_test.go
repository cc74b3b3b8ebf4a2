package nan_test

import (
	"slices"
	"testing"

	"github.com/nan-project/nand/internal/nan"
)

// TestFSMTransitionTable verifies every transition named in the session
// lifecycle diagram: Creating/CreatingOrphan/Established/Terminated/Gone
// driven by the five lifecycle events.
func TestFSMTransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		state       nan.LifecycleState
		event       nan.LifecycleEvent
		wantState   nan.LifecycleState
		wantActions []nan.LifecycleAction
	}{
		{
			name:        "Creating+HalSuccess->Established",
			state:       nan.StateCreating,
			event:       nan.EventHalSuccess,
			wantState:   nan.StateEstablished,
			wantActions: []nan.LifecycleAction{nan.ActionAttachSession},
		},
		{
			name:        "Creating+HalFail->Gone",
			state:       nan.StateCreating,
			event:       nan.EventHalFail,
			wantState:   nan.StateGone,
			wantActions: []nan.LifecycleAction{nan.ActionNotifyConfigFail},
		},
		{
			name:        "Creating+OwnerDisconnect->CreatingOrphan",
			state:       nan.StateCreating,
			event:       nan.EventOwnerDisconnect,
			wantState:   nan.StateCreatingOrphan,
			wantActions: nil,
		},
		{
			name:        "CreatingOrphan+HalSuccess->Gone (compensating stop)",
			state:       nan.StateCreatingOrphan,
			event:       nan.EventHalSuccess,
			wantState:   nan.StateGone,
			wantActions: []nan.LifecycleAction{nan.ActionStopAtHAL},
		},
		{
			name:        "CreatingOrphan+HalFail->Gone",
			state:       nan.StateCreatingOrphan,
			event:       nan.EventHalFail,
			wantState:   nan.StateGone,
			wantActions: nil,
		},
		{
			name:        "Established+HalFail->Established (update failed, session survives)",
			state:       nan.StateEstablished,
			event:       nan.EventHalFail,
			wantState:   nan.StateEstablished,
			wantActions: []nan.LifecycleAction{nan.ActionNotifyConfigFail},
		},
		{
			name:        "Established+HalSuccess->Established (update succeeded, no callback)",
			state:       nan.StateEstablished,
			event:       nan.EventHalSuccess,
			wantState:   nan.StateEstablished,
			wantActions: nil,
		},
		{
			name:        "Established+FirmwareTerminated->Terminated (tombstone)",
			state:       nan.StateEstablished,
			event:       nan.EventFirmwareTerminated,
			wantState:   nan.StateTerminated,
			wantActions: []nan.LifecycleAction{nan.ActionNotifyTerminated},
		},
		{
			name:        "Terminated+AppTerminate->Gone (no HAL stop, firmware side already gone)",
			state:       nan.StateTerminated,
			event:       nan.EventAppTerminate,
			wantState:   nan.StateGone,
			wantActions: nil,
		},
		{
			name:        "Terminated+OwnerDisconnect->Gone",
			state:       nan.StateTerminated,
			event:       nan.EventOwnerDisconnect,
			wantState:   nan.StateGone,
			wantActions: nil,
		},
		{
			name:        "Established+AppTerminate->Gone",
			state:       nan.StateEstablished,
			event:       nan.EventAppTerminate,
			wantState:   nan.StateGone,
			wantActions: []nan.LifecycleAction{nan.ActionStopAtHAL},
		},
		{
			name:        "Established+OwnerDisconnect->Gone",
			state:       nan.StateEstablished,
			event:       nan.EventOwnerDisconnect,
			wantState:   nan.StateGone,
			wantActions: []nan.LifecycleAction{nan.ActionStopAtHAL},
		},
		{
			name:        "Gone+anything is a self-loop with no actions",
			state:       nan.StateGone,
			event:       nan.EventFirmwareTerminated,
			wantState:   nan.StateGone,
			wantActions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nan.Transition(tt.state, tt.event)
			if got.Next != tt.wantState {
				t.Errorf("Next = %s, want %s", got.Next, tt.wantState)
			}
			if !slices.Equal(got.Actions, tt.wantActions) {
				t.Errorf("Actions = %v, want %v", got.Actions, tt.wantActions)
			}
		})
	}
}
