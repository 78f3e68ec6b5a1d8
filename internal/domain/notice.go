package domain

import "time"

// NoticeType is the bulletin code of a procurement notice document.
type NoticeType string

// Notice types this pipeline understands. Documents of any other type are
// skipped during normalization.
const (
	NoticeConcludedContract        NoticeType = "notice_concluded_contract"
	NoticeContractRights           NoticeType = "notice_contract_rights"
	NoticeExAnte                   NoticeType = "notice_exante"
	NoticeSocialResults            NoticeType = "notice_social_results"
	SpsNoticeContractRights        NoticeType = "sps_notice_contract_rights"
	SpsNoticeExAnte                NoticeType = "sps_notice_exante"
	SpsNoticeSocialResults         NoticeType = "sps_notice_social_results"
	DefNoticeContractRights        NoticeType = "def_notice_contract_rights"
	DefNoticeExAnte                NoticeType = "def_notice_exante"
	NoticeConcessionResults        NoticeType = "notice_concession_results"
	NoticeConcessionExAnte         NoticeType = "notice_concession_exante"
	NoticeConcessionSocialResults  NoticeType = "notice_concession_social_results"
	NoticeEsfResults               NoticeType = "notice_esf_results"
)

// Winner is an awarded bidder attached to a notice. WinnerRegDate is filled
// from the company registry when the registration number resolves there,
// formatted DD.MM.YYYY.
type Winner struct {
	WinnerName    string `json:"winner_name" bson:"winner_name"`
	WinnerRegNum  string `json:"winner_reg_num" bson:"winner_reg_num"`
	WinnerRegDate string `json:"winner_reg_date,omitempty" bson:"winner_reg_date,omitempty"`
}

// ProcurementNotice is the persisted record for one normalized notice.
//
// DocumentID is not globally unique: a procurement can publish several
// lifecycle notices sharing an id. Upserts match on document_id, so a later
// stage overwrites the earlier one.
type ProcurementNotice struct {
	DocumentID      string     `json:"document_id" bson:"document_id"`
	Type            NoticeType `json:"type" bson:"type"`
	AuthorityName   string     `json:"authority_name,omitempty" bson:"authority_name,omitempty"`
	AuthorityRegNum string     `json:"authority_reg_num,omitempty" bson:"authority_reg_num,omitempty"`
	Price           *float64   `json:"price" bson:"price"`
	PriceFrom       *float64   `json:"price_from" bson:"price_from"`
	PriceTo         *float64   `json:"price_to" bson:"price_to"`
	DecisionDate    string     `json:"decision_date,omitempty" bson:"decision_date,omitempty"`
	TenderNum       *int       `json:"tender_num" bson:"tender_num"`
	Currency        *float64   `json:"currency" bson:"currency"`
	EuFund          bool       `json:"eu_fund" bson:"eu_fund"`
	Winners         []Winner   `json:"winners" bson:"winners"`
}

// FetchCursor tracks the single most recent day processed by the harvester.
// It is overwritten, not appended, at the end of every day-cycle.
type FetchCursor struct {
	Year      string    `json:"year" bson:"year"`
	Month     string    `json:"month" bson:"month"`
	Day       string    `json:"day" bson:"day"`
	FetchedAt time.Time `json:"fetchedAt" bson:"fetched_at"`
}
