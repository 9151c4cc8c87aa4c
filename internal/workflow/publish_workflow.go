package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yourorg/asset-publish/internal/types"
)

// Registered names; the API starts workflows by name.
const (
	PublishAssetSetName     = "PublishAssetSetWorkflow"
	PublishAssetSetActivity = "Activities.PublishAssetSet"
)

// PublishAssetSetWorkflow runs a single publish activity. Retries cover worker
// or infrastructure failures only; bad input fails the activity without retry.
func PublishAssetSetWorkflow(ctx workflow.Context, p types.PublishParams) (types.PublishResult, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var res types.PublishResult
	if err := workflow.ExecuteActivity(ctx, PublishAssetSetActivity, p).Get(ctx, &res); err != nil {
		return types.PublishResult{}, err
	}
	workflow.GetLogger(ctx).Info("Asset set published", "metadata", res.MetadataURL, "failed", res.Failed)
	return res, nil
}
