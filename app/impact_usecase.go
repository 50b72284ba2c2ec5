package app

import (
	"context"
	"fmt"
	"os"

	"github.com/routelens/routelens/domain"
)

// ImpactUseCase orchestrates the route-impact workflow
type ImpactUseCase struct {
	service    domain.ImpactService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewImpactUseCase creates a new impact use case
func NewImpactUseCase(service domain.ImpactService, formatter domain.OutputFormatter) *ImpactUseCase {
	return &ImpactUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute runs impact analysis for a change set and writes the
// formatted response
func (uc *ImpactUseCase) Execute(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResponse, error) {
	if len(req.ChangedFiles) == 0 {
		return nil, fmt.Errorf("no changed files specified")
	}
	if req.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth cannot be negative")
	}

	root, err := uc.fileHelper.ResolveRoot(req.RootDir)
	if err != nil {
		return nil, err
	}
	req.RootDir = root

	changed, err := uc.fileHelper.RelativizeChangedFiles(root, req.ChangedFiles)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, fmt.Errorf("no changed files specified")
	}
	req.ChangedFiles = changed

	resp, err := uc.service.Impact(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("impact analysis failed: %w", err)
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if err := uc.formatter.WriteImpact(resp, req.OutputFormat, writer); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return resp, nil
}
