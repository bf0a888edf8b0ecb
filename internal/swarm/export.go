package swarm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"hydra/internal/logging"
)

// missionsDir is where mission records land under the workspace.
const missionsDir = ".hydra/missions"

// ExportPlan serializes a plan to JSON.
func ExportPlan(plan *Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// ImportPlan deserializes a plan and checks its structural invariants.
// Task ids, dependencies and agent assignments survive a round-trip
// exactly.
func ImportPlan(data []byte, agents AgentResolver) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := plan.Validate(agents); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SaveMission writes a mission record to <workspace>/.hydra/missions/<id>.json.
func SaveMission(workspace string, mission *MissionResult) (string, error) {
	dir := filepath.Join(workspace, missionsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create missions directory: %w", err)
	}

	data, err := json.MarshalIndent(mission, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal mission: %w", err)
	}

	path := filepath.Join(dir, mission.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write mission: %w", err)
	}

	logging.Swarm("[Export] mission %s saved to %s", mission.ID, path)
	return path, nil
}

// LoadMission reads a mission record by id.
func LoadMission(workspace, id string) (*MissionResult, error) {
	path := filepath.Join(workspace, missionsDir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission: %w", err)
	}

	var mission MissionResult
	if err := json.Unmarshal(data, &mission); err != nil {
		return nil, fmt.Errorf("failed to parse mission %s: %w", path, err)
	}
	return &mission, nil
}

// ListMissions returns the ids of all saved missions, newest first by
// file modification time.
func ListMissions(workspace string) ([]string, error) {
	dir := filepath.Join(workspace, missionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type stamped struct {
		id  string
		mod int64
	}
	var found []stamped
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, stamped{
			id:  entry.Name()[:len(entry.Name())-len(".json")],
			mod: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod > found[j].mod })

	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids, nil
}
