package app

import (
	"context"
	"fmt"
	"os"

	"github.com/routelens/routelens/domain"
)

// BuildUseCase orchestrates the graph-build workflow
type BuildUseCase struct {
	service    domain.BuildService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewBuildUseCase creates a new build use case
func NewBuildUseCase(service domain.BuildService, formatter domain.OutputFormatter) *BuildUseCase {
	return &BuildUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute builds the import graph and writes the formatted response
func (uc *BuildUseCase) Execute(ctx context.Context, req domain.BuildRequest) (*domain.BuildResponse, error) {
	root, err := uc.fileHelper.ResolveRoot(req.RootDir)
	if err != nil {
		return nil, err
	}
	req.RootDir = root

	resp, err := uc.service.Build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("graph build failed: %w", err)
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if err := uc.formatter.WriteBuild(resp, req.OutputFormat, writer); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return resp, nil
}
