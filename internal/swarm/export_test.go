package swarm

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanExportImportRoundTrip(t *testing.T) {
	agents := testAgents(t)
	original := &Plan{
		Objective:  "round trip",
		Complexity: "moderate",
		Tasks: []Task{
			{ID: 1, Description: "first", AgentName: "architect", Status: TaskPending, Priority: PriorityHigh},
			{ID: 2, Description: "second", AgentName: "coder", Status: TaskPending, Dependencies: []int{1}},
			{ID: 3, Description: "third", AgentName: "reviewer", Status: TaskPending, Dependencies: []int{1, 2}},
		},
	}

	data, err := ExportPlan(original)
	require.NoError(t, err)

	imported, err := ImportPlan(data, agents)
	require.NoError(t, err)

	if diff := cmp.Diff(original, imported); diff != "" {
		t.Errorf("plan changed across round-trip (-want +got):\n%s", diff)
	}
}

func TestImportPlanRejectsInvalid(t *testing.T) {
	agents := testAgents(t)

	_, err := ImportPlan([]byte("{not json"), agents)
	assert.Error(t, err)

	cyclic := []byte(`{"objective": "x", "tasks": [
		{"id": 1, "description": "a", "agent_name": "generalist", "dependencies": [2]},
		{"id": 2, "description": "b", "agent_name": "generalist", "dependencies": [1]}
	]}`)
	_, err = ImportPlan(cyclic, agents)
	var validationErr *PlanValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestMissionSaveLoadList(t *testing.T) {
	workspace := t.TempDir()

	mission := &MissionResult{
		ID:        "test-mission-1",
		Objective: "save me",
		State:     StateDone,
		Verdict: MissionVerdict{
			OverallScore:   85,
			OverallVerdict: VerdictPass,
			Phases: []PhaseVerdict{
				{Phase: PhaseA, Score: 85, Verdict: VerdictPass},
			},
		},
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	path, err := SaveMission(workspace, mission)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadMission(workspace, "test-mission-1")
	require.NoError(t, err)
	if diff := cmp.Diff(mission, loaded); diff != "" {
		t.Errorf("mission changed across save/load (-want +got):\n%s", diff)
	}

	ids, err := ListMissions(workspace)
	require.NoError(t, err)
	assert.Equal(t, []string{"test-mission-1"}, ids)
}

func TestListMissionsNewestFirst(t *testing.T) {
	workspace := t.TempDir()
	base := time.Now().Add(-time.Hour)

	for i, id := range []string{"oldest", "middle", "newest"} {
		path, err := SaveMission(workspace, &MissionResult{ID: id, State: StateDone})
		require.NoError(t, err)
		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	ids, err := ListMissions(workspace)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)
}

func TestLoadMissionMissing(t *testing.T) {
	_, err := LoadMission(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestListMissionsEmptyWorkspace(t *testing.T) {
	ids, err := ListMissions(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
