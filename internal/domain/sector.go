package domain

// SectorID is the closed set of R&D performing sectors.
type SectorID string

const (
	SectorTotal      SectorID = "total"
	SectorBusiness   SectorID = "business"
	SectorGovernment SectorID = "government"
	SectorEducation  SectorID = "education"
	SectorNonprofit  SectorID = "nonprofit"
)

func (s SectorID) Valid() bool {
	switch s {
	case SectorTotal, SectorBusiness, SectorGovernment, SectorEducation, SectorNonprofit:
		return true
	}
	return false
}

type SectorDescriptor struct {
	ID          SectorID      `json:"id"`
	SourceCodes []string      `json:"source_codes"`
	Name        LocalizedName `json:"name"`
}
