package dto

import (
	"hotel/shared/constant"
	"hotel/shared/model"
	"hotel/shared/timezone"
)

// Metadata is the audit block embedded in every resource response. Timestamps
// are rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
}

func MetadataOf(source model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(source.CreatedAt, constant.DateFormat),
		CreatedBy:  source.CreatedBy,
		ModifiedAt: timezone.Format(source.ModifiedAt, constant.DateFormat),
		ModifiedBy: source.ModifiedBy,
	}
}
