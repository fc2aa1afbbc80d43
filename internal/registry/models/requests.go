package models

import (
	"strings"

	dErrors "provreg/pkg/domain-errors"
)

// Request types for the HTTP layer. Validate checks presence and shape only;
// the service applies the metadata rule set so there is a single authority
// for field bounds. Follows validation order: Size -> Required -> Syntax -> Semantic.

type RegisterRecordRequest struct {
	AssetDesignation     string   `json:"asset_designation"`
	BinaryFootprint      uint64   `json:"binary_footprint"`
	DescriptiveSummary   string   `json:"descriptive_summary"`
	ClassificationLabels []string `json:"classification_labels"`
}

func (r *RegisterRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

type ReviseRecordRequest struct {
	AssetDesignation     string   `json:"asset_designation"`
	BinaryFootprint      uint64   `json:"binary_footprint"`
	DescriptiveSummary   string   `json:"descriptive_summary"`
	ClassificationLabels []string `json:"classification_labels"`
}

func (r *ReviseRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

type TransferCustodyRequest struct {
	Successor string `json:"successor"`
}

func (r *TransferCustodyRequest) Normalize() {
	if r == nil {
		return
	}
	r.Successor = strings.TrimSpace(r.Successor)
}

func (r *TransferCustodyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Successor == "" {
		return dErrors.New(dErrors.CodeBadRequest, "successor is required")
	}
	return nil
}

type GrantAccessRequest struct {
	Accessor string `json:"accessor"`
}

func (r *GrantAccessRequest) Normalize() {
	if r == nil {
		return
	}
	r.Accessor = strings.TrimSpace(r.Accessor)
}

func (r *GrantAccessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Accessor == "" {
		return dErrors.New(dErrors.CodeBadRequest, "accessor is required")
	}
	return nil
}

type RevokeAccessRequest struct {
	Accessor string `json:"accessor"`
}

func (r *RevokeAccessRequest) Normalize() {
	if r == nil {
		return
	}
	r.Accessor = strings.TrimSpace(r.Accessor)
}

func (r *RevokeAccessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Accessor == "" {
		return dErrors.New(dErrors.CodeBadRequest, "accessor is required")
	}
	return nil
}

type AugmentLabelsRequest struct {
	Labels []string `json:"labels"`
}

func (r *AugmentLabelsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Labels) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "labels are required")
	}
	return nil
}

type VerifyAuthenticityRequest struct {
	Custodian string `json:"custodian"`
}

func (r *VerifyAuthenticityRequest) Normalize() {
	if r == nil {
		return
	}
	r.Custodian = strings.TrimSpace(r.Custodian)
}

func (r *VerifyAuthenticityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Custodian == "" {
		return dErrors.New(dErrors.CodeBadRequest, "custodian is required")
	}
	return nil
}
