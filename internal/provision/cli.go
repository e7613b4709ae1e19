package provision

import (
	"context"

	"github.com/hoistlabs/bricksmith/internal/openapi"
	"github.com/spf13/cobra"
)

type runner interface {
	Run(ctx context.Context, spec Spec, auth Auth) (*Result, error)
}

// NewCommand constructs the `provision` command and its per-auth-mode
// subcommands. The runner is typically a *Workflow whose logger and
// credentials the root command populates before execution.
func NewCommand(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision an AI Foundry agent with Databricks access",
	}

	cmd.AddCommand(managedIdentityCommand(run))
	cmd.AddCommand(patCommand(run))

	return cmd
}

func managedIdentityCommand(run runner) *cobra.Command {
	var spec Spec
	cmd := &cobra.Command{
		Use:           "managed-identity",
		Short:         "Provision an agent that calls Databricks with a managed identity",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := run.Run(cmd.Context(), spec, ManagedIdentity{})
			if err != nil {
				return err
			}
			return result.Emit(cmd.OutOrStdout())
		},
	}
	addSpecFlags(cmd, &spec)
	return cmd
}

func patCommand(run runner) *cobra.Command {
	var (
		spec Spec
		auth PersonalAccessToken
	)
	cmd := &cobra.Command{
		Use:           "pat",
		Short:         "Provision an agent that calls Databricks with a personal access token",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := run.Run(cmd.Context(), spec, auth)
			if err != nil {
				return err
			}
			return result.Emit(cmd.OutOrStdout())
		},
	}
	addSpecFlags(cmd, &spec)

	cmd.Flags().StringVar(&auth.Parent.SubscriptionID, "subscription-id", "", "Azure subscription ID")
	cmd.MarkFlagRequired("subscription-id")

	cmd.Flags().StringVar(&auth.Parent.ResourceGroup, "resource-group", "", "Azure resource group name")
	cmd.MarkFlagRequired("resource-group")

	cmd.Flags().StringVar(&auth.Parent.Account, "account-name", "", "AI Foundry account name")
	cmd.MarkFlagRequired("account-name")

	cmd.Flags().StringVar(&auth.Parent.Project, "project-name", "", "AI Foundry project name")
	cmd.MarkFlagRequired("project-name")

	cmd.Flags().StringVar(&auth.ConnectionName, "connection-name", "databricks-pat-connection", "Name for the AI Foundry connection holding the token")
	cmd.Flags().StringVar(&auth.Token, "databricks-pat", "", "Use an existing Databricks PAT instead of creating a new one")
	cmd.Flags().IntVar(&auth.LifetimeDays, "pat-lifetime-days", 90, "PAT lifetime in days (max: 730)")
	cmd.Flags().StringVar(&auth.Comment, "pat-comment", "AI Foundry Agent", "Comment recorded on the created PAT")

	return cmd
}

func addSpecFlags(cmd *cobra.Command, spec *Spec) {
	cmd.Flags().StringVar(&spec.ProjectEndpoint, "ai-foundry-project-endpoint", "", "AI Foundry project endpoint URL")
	cmd.MarkFlagRequired("ai-foundry-project-endpoint")

	cmd.Flags().StringVar(&spec.ModelDeployment, "ai-model-deployment-name", "", "Model deployment name (e.g. gpt-4o)")
	cmd.MarkFlagRequired("ai-model-deployment-name")

	cmd.Flags().StringVar(&spec.WorkspaceURL, "databricks-workspace-url", "", "Databricks workspace URL (e.g. https://adb-1234567890123456.7.azuredatabricks.net)")
	cmd.MarkFlagRequired("databricks-workspace-url")

	cmd.Flags().StringVar(&spec.AgentName, "agent-name", DefaultAgentName, "Name for the AI agent")
	cmd.Flags().StringVar(&spec.SpecFile, "openapi-spec", openapi.DefaultPath(), "Path to the Databricks OpenAPI document")
}
