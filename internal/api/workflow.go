package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/yourorg/asset-publish/internal/normalize"
	"github.com/yourorg/asset-publish/internal/types"
	"github.com/yourorg/asset-publish/internal/workflow"
)

// WorkflowClient is the part of client.Client the handlers use.
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, wf interface{}, args ...interface{}) (client.WorkflowRun, error)
	GetWorkflow(ctx context.Context, workflowID string, runID string) client.WorkflowRun
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}

type WorkflowHandler struct {
	temporalClient WorkflowClient
	taskQueue      string
	log            *zap.Logger
}

func NewWorkflowHandler(c WorkflowClient, taskQueue string, log *zap.Logger) *WorkflowHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkflowHandler{temporalClient: c, taskQueue: taskQueue, log: log}
}

type PublishRequest struct {
	Bucket        string          `json:"bucket" binding:"required"`
	ImagePath     string          `json:"image_path" binding:"required"`
	AnimationPath string          `json:"animation_path"`
	ManifestURI   string          `json:"manifest_uri"`
	Manifest      json.RawMessage `json:"manifest"`
}

type StartWorkflowResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// Register mounts the publish routes on g.
func (h *WorkflowHandler) Register(g *gin.RouterGroup) {
	g.POST("/publish", h.StartPublish)
	g.GET("/workflows/:id/status", h.GetWorkflowStatus)
}

// StartPublish starts a publish workflow for the asset set in the request body.
func (h *WorkflowHandler) StartPublish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := normalize.ValidateBucket(req.Bucket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Manifest) == 0 && req.ManifestURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manifest or manifest_uri is required"})
		return
	}

	params := types.PublishParams{
		Bucket:        req.Bucket,
		ImagePath:     req.ImagePath,
		AnimationPath: req.AnimationPath,
		ManifestURI:   req.ManifestURI,
		Manifest:      req.Manifest,
	}
	options := client.StartWorkflowOptions{
		ID:        "publish-" + uuid.NewString(),
		TaskQueue: h.taskQueue,
	}
	run, err := h.temporalClient.ExecuteWorkflow(c.Request.Context(), options, workflow.PublishAssetSetName, params)
	if err != nil {
		h.log.Error("start workflow", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start workflow: " + err.Error()})
		return
	}
	h.log.Info("publish started", zap.String("workflow_id", run.GetID()), zap.String("bucket", req.Bucket))

	c.JSON(http.StatusAccepted, StartWorkflowResponse{
		WorkflowID: run.GetID(),
		RunID:      run.GetRunID(),
	})
}

// GetWorkflowStatus reports the state of a publish workflow, with its result
// once it has completed.
func (h *WorkflowHandler) GetWorkflowStatus(c *gin.Context) {
	workflowID := c.Param("id")
	if workflowID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workflow ID is required"})
		return
	}

	describe, err := h.temporalClient.DescribeWorkflowExecution(c.Request.Context(), workflowID, "")
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to describe workflow: " + err.Error()})
		return
	}
	info := describe.GetWorkflowExecutionInfo()
	resp := gin.H{
		"workflow_id": workflowID,
		"status":      info.GetStatus().String(),
		"start_time":  info.GetStartTime().AsTime(),
	}
	if info.GetStatus() != enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED {
		c.JSON(http.StatusOK, resp)
		return
	}

	var result types.PublishResult
	if err := h.temporalClient.GetWorkflow(c.Request.Context(), workflowID, "").Get(c.Request.Context(), &result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get workflow result: " + err.Error()})
		return
	}
	resp["result"] = result
	c.JSON(http.StatusOK, resp)
}
