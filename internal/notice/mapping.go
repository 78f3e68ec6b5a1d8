package notice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tenderhound/tenderhound/internal/domain"
)

// Mapping holds the allow-list and the ordered source-path fallback chains
// the normalizer resolves record fields from. It is plain data injected at
// construction so the tables can be tested and overridden without touching
// control flow. Paths are dot-separated locations inside the parsed notice
// tree; the first path yielding a non-empty value wins.
type Mapping struct {
	AllowedTypes    []domain.NoticeType `yaml:"allowed_types"`
	AuthorityName   []string            `yaml:"authority_name"`
	AuthorityRegNum []string            `yaml:"authority_reg_num"`
	Price           []string            `yaml:"price"`
	PriceFrom       []string            `yaml:"price_from"`
	PriceTo         []string            `yaml:"price_to"`
	DecisionDate    []string            `yaml:"decision_date"`
	TenderNum       []string            `yaml:"tender_num"`
	Currency        []string            `yaml:"currency"`
	EuFund          []string            `yaml:"eu_fund"`
}

// DefaultMapping returns the field tables for the government bulletin
// schema family this pipeline consumes.
func DefaultMapping() Mapping {
	return Mapping{
		AllowedTypes: []domain.NoticeType{
			domain.NoticeConcludedContract,
			domain.NoticeContractRights,
			domain.NoticeExAnte,
			domain.NoticeSocialResults,
			domain.SpsNoticeContractRights,
			domain.SpsNoticeExAnte,
			domain.SpsNoticeSocialResults,
			domain.DefNoticeContractRights,
			domain.DefNoticeExAnte,
			domain.NoticeConcessionResults,
			domain.NoticeConcessionExAnte,
			domain.NoticeConcessionSocialResults,
			domain.NoticeEsfResults,
		},
		AuthorityName:   []string{"authority_name", "general.authority_name"},
		AuthorityRegNum: []string{"authority_reg_num", "general.authority_reg_num"},
		Price: []string{
			"price",
			"contract_price_exact",
			"part_5_list.part_5.contract_price_exact",
			"price_exact_eur",
			"price_exact_lvl",
		},
		PriceFrom:    []string{"price_from", "part_5_list.part_5.price_from"},
		PriceTo:      []string{"price_to", "part_5_list.part_5.price_to"},
		DecisionDate: []string{"decision_date", "part_5_list.part_5.decision_date"},
		TenderNum:    []string{"tender_num", "part_5_list.part_5.tender_num"},
		Currency:     []string{"currency", "part_5_list.part_5.currency"},
		EuFund:       []string{"eu_fund"},
	}
}

// LoadMapping reads a Mapping from a YAML file. Empty sections fall back to
// the default tables, so an override file only needs the chains it changes.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	m := DefaultMapping()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}
	return m, nil
}

// Allowed reports whether t is in the allow-list.
func (m Mapping) Allowed(t domain.NoticeType) bool {
	for _, a := range m.AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}
