package provision

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hoistlabs/bricksmith/internal/databricks"
)

const (
	AuthManagedIdentity     AuthType = "ManagedIdentity"
	AuthPersonalAccessToken AuthType = "PersonalAccessToken"
)

type (
	AuthType string

	// Result describes everything a run created, updated or reused. It is
	// the sole machine-readable output of a successful run; all narration
	// goes to the logger.
	Result struct {
		ProjectEndpoint string   `json:"ai_foundry_project_endpoint"`
		ModelDeployment string   `json:"ai_model_deployment_name"`
		AgentID         string   `json:"ai_foundry_agent_id"`
		AgentName       string   `json:"agent_name"`
		WorkspaceURL    string   `json:"databricks_workspace_url"`
		AuthType        AuthType `json:"auth_type"`

		*ManagedIdentityResult
		*ConnectionResult
	}

	ManagedIdentityResult struct {
		Audience string `json:"databricks_audience"`
	}

	ConnectionResult struct {
		ConnectionName string `json:"connection_name"`
		ConnectionID   string `json:"connection_id"`
		// PATLifetimeDays is null when the token was provided rather than
		// generated.
		PATLifetimeDays *int              `json:"pat_lifetime_days"`
		PATSource       databricks.Source `json:"pat_source"`
	}
)

// Emit writes the result to w as a single indented JSON object.
func (r *Result) Emit(w io.Writer) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
