package notice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderhound/tenderhound/internal/domain"
	"github.com/tenderhound/tenderhound/internal/storage/inmem"
)

type fakeRegistry struct {
	mu    sync.Mutex
	dates map[string]string
	calls map[string]int
	err   error
}

func newFakeRegistry(dates map[string]string) *fakeRegistry {
	return &fakeRegistry{dates: dates, calls: make(map[string]int)}
}

func (f *fakeRegistry) RegistrationDate(ctx context.Context, regNum string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[regNum]++
	if f.err != nil {
		return "", f.err
	}
	return f.dates[regNum], nil
}

func newTestNormalizer(t *testing.T) (*Normalizer, *inmem.Store, *fakeRegistry) {
	t.Helper()
	store := inmem.New()
	reg := newFakeRegistry(nil)
	return NewNormalizer(DefaultMapping(), reg, store), store, reg
}

func storedNotices(t *testing.T, store *inmem.Store) []domain.ProcurementNotice {
	t.Helper()
	notices, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	return notices
}

func TestProcess_WellFormedContractAwardNotice(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	xml := `
<document>
  <id>IUB-2019-001</id>
  <type>notice_contract_rights</type>
  <general>
    <authority_name>Riga City Council</authority_name>
    <authority_reg_num>90000064250</authority_reg_num>
  </general>
  <contract_price_exact>15000.50</contract_price_exact>
  <decision_date>2019-03-12</decision_date>
  <currency>978</currency>
  <winner_list>
    <winner>
      <winner_name>SIA Alpha</winner_name>
      <winner_reg_num>40003026637</winner_reg_num>
    </winner>
  </winner_list>
</document>`

	assert.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)

	got := notices[0]
	assert.Equal(t, "IUB-2019-001", got.DocumentID)
	assert.Equal(t, domain.NoticeContractRights, got.Type)
	assert.Equal(t, "Riga City Council", got.AuthorityName)
	assert.Equal(t, "90000064250", got.AuthorityRegNum)
	require.NotNil(t, got.Price)
	assert.Equal(t, 15000.50, *got.Price)
	assert.Equal(t, "2019-03-12", got.DecisionDate)
	require.NotNil(t, got.Currency)
	assert.Equal(t, float64(978), *got.Currency)
	assert.False(t, got.EuFund, "absent eu_fund flag defaults to false")
	require.Len(t, got.Winners, 1)
	assert.Equal(t, "SIA Alpha", got.Winners[0].WinnerName)
	assert.Equal(t, "40003026637", got.Winners[0].WinnerRegNum)
}

func TestProcess_SkipsMalformedXML(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	assert.Equal(t, 0, n.Process(context.Background(), []byte("<document><id>unclosed")))
	assert.Empty(t, storedNotices(t, store))
}

func TestProcess_SkipsWithoutIDOrType(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{
			name: "missing id",
			xml: `<document><type>notice_contract_rights</type>
				<winner_list><winner><winner_name>A</winner_name><winner_reg_num>1</winner_reg_num></winner></winner_list>
			</document>`,
		},
		{
			name: "missing type",
			xml: `<document><id>X-1</id>
				<winner_list><winner><winner_name>A</winner_name><winner_reg_num>1</winner_reg_num></winner></winner_list>
			</document>`,
		},
		{
			name: "disallowed type",
			xml: `<document><id>X-1</id><type>notice_planned_procurement</type>
				<winner_list><winner><winner_name>A</winner_name><winner_reg_num>1</winner_reg_num></winner></winner_list>
			</document>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, store, _ := newTestNormalizer(t)
			assert.Equal(t, 0, n.Process(context.Background(), []byte(tt.xml)))
			assert.Empty(t, storedNotices(t, store))
		})
	}
}

func TestProcess_SkipsWithoutWinners(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	xml := `<document><id>X-2</id><type>notice_contract_rights</type>
		<contract_price_exact>100</contract_price_exact>
	</document>`

	assert.Equal(t, 0, n.Process(context.Background(), []byte(xml)))
	assert.Empty(t, storedNotices(t, store))
}

func TestProcess_LegacyWinnersShape(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	xml := `
<document>
  <id>X-3</id>
  <type>notice_concluded_contract</type>
  <winners>
    <winner>
      <firm>SIA Beta</firm>
      <reg_num>42103005057</reg_num>
    </winner>
    <winner>
      <firm>SIA Gamma</firm>
      <reg_num>41503041552</reg_num>
    </winner>
  </winners>
</document>`

	assert.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	require.Len(t, notices[0].Winners, 2)
	assert.Equal(t, domain.Winner{WinnerName: "SIA Beta", WinnerRegNum: "42103005057"}, notices[0].Winners[0])
	assert.Equal(t, domain.Winner{WinnerName: "SIA Gamma", WinnerRegNum: "41503041552"}, notices[0].Winners[1])
}

func TestProcess_NestedWinnerList(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	xml := `
<document>
  <id>X-4</id>
  <type>sps_notice_contract_rights</type>
  <part_5_list>
    <part_5>
      <contract_price_exact>999.99</contract_price_exact>
      <winner_list>
        <winner>
          <winner_name>SIA Delta</winner_name>
          <winner_reg_num>45403000253</winner_reg_num>
        </winner>
      </winner_list>
    </part_5>
  </part_5_list>
</document>`

	assert.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	require.NotNil(t, notices[0].Price)
	assert.Equal(t, 999.99, *notices[0].Price)
	require.Len(t, notices[0].Winners, 1)
	assert.Equal(t, "SIA Delta", notices[0].Winners[0].WinnerName)
}

func TestProcess_MultiPartFanOut(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	xml := `
<document>
  <id>X-5</id>
  <type>notice_contract_rights</type>
  <part_5_list>
    <part_5>
      <contract_price_exact>100</contract_price_exact>
      <winner_list>
        <winner><winner_name>First</winner_name><winner_reg_num>40003026637</winner_reg_num></winner>
      </winner_list>
    </part_5>
    <part_5>
      <contract_price_exact>200</contract_price_exact>
      <winner_list>
        <winner><winner_name>Second</winner_name><winner_reg_num>42403037066</winner_reg_num></winner>
      </winner_list>
    </part_5>
  </part_5_list>
</document>`

	// Both parts are normalized and upserted independently; they share a
	// document_id, so the store ends up with the last part's record.
	assert.Equal(t, 2, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	require.NotNil(t, notices[0].Price)
	assert.Equal(t, float64(200), *notices[0].Price)
	require.Len(t, notices[0].Winners, 1)
	assert.Equal(t, "Second", notices[0].Winners[0].WinnerName)
}

func TestProcess_MultiPartEvaluatedIndependently(t *testing.T) {
	n, store, _ := newTestNormalizer(t)

	// Second part has no winner data, so only the first part persists.
	xml := `
<document>
  <id>X-6</id>
  <type>notice_contract_rights</type>
  <part_5_list>
    <part_5>
      <winner_list>
        <winner><winner_name>Only</winner_name><winner_reg_num>40003026637</winner_reg_num></winner>
      </winner_list>
    </part_5>
    <part_5>
      <contract_price_exact>200</contract_price_exact>
    </part_5>
  </part_5_list>
</document>`

	assert.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	assert.Equal(t, "Only", notices[0].Winners[0].WinnerName)
}

func TestProcess_PriceFallbacks(t *testing.T) {
	winnerBlock := `<winner_list><winner><winner_name>W</winner_name><winner_reg_num>40003026637</winner_reg_num></winner></winner_list>`

	tests := []struct {
		name string
		body string
		want *float64
	}{
		{
			name: "contract price beats eur price",
			body: `<contract_price_exact>50</contract_price_exact><price_exact_eur>60</price_exact_eur>`,
			want: ptr(50.0),
		},
		{
			name: "eur price used when others absent",
			body: `<price_exact_eur>60</price_exact_eur>`,
			want: ptr(60.0),
		},
		{
			name: "national currency price is the last resort",
			body: `<price_exact_lvl>70</price_exact_lvl>`,
			want: ptr(70.0),
		},
		{
			name: "non-numeric price resolves to nil",
			body: `<contract_price_exact>N/A</contract_price_exact>`,
			want: nil,
		},
		{
			name: "absent price resolves to nil",
			body: ``,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, store, _ := newTestNormalizer(t)
			xml := `<document><id>P-1</id><type>notice_contract_rights</type>` +
				tt.body + winnerBlock + `</document>`

			require.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

			notices := storedNotices(t, store)
			require.Len(t, notices, 1)
			if tt.want == nil {
				assert.Nil(t, notices[0].Price)
			} else {
				require.NotNil(t, notices[0].Price)
				assert.Equal(t, *tt.want, *notices[0].Price)
			}
		})
	}
}

func TestProcess_EuFundFlag(t *testing.T) {
	winnerBlock := `<winner_list><winner><winner_name>W</winner_name><winner_reg_num>40003026637</winner_reg_num></winner></winner_list>`

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"flag set", `<eu_fund>1</eu_fund>`, true},
		{"flag cleared", `<eu_fund>0</eu_fund>`, false},
		{"flag absent", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, store, _ := newTestNormalizer(t)
			xml := `<document><id>E-1</id><type>notice_esf_results</type>` +
				tt.body + winnerBlock + `</document>`

			require.Equal(t, 1, n.Process(context.Background(), []byte(xml)))
			notices := storedNotices(t, store)
			require.Len(t, notices, 1)
			assert.Equal(t, tt.want, notices[0].EuFund)
		})
	}
}

func TestProcess_RegistryLookup(t *testing.T) {
	store := inmem.New()
	reg := newFakeRegistry(map[string]string{"40003026637": "20.07.2004"})
	n := NewNormalizer(DefaultMapping(), reg, store)

	// Two winners share a registration number; one has a malformed number.
	xml := `
<document>
  <id>R-1</id>
  <type>notice_contract_rights</type>
  <winner_list>
    <winner><winner_name>A</winner_name><winner_reg_num>40003026637</winner_reg_num></winner>
    <winner><winner_name>B</winner_name><winner_reg_num>40003026637</winner_reg_num></winner>
    <winner><winner_name>C</winner_name><winner_reg_num>not-a-number</winner_reg_num></winner>
  </winner_list>
</document>`

	require.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	assert.Equal(t, 1, reg.calls["40003026637"], "duplicate reg nums are looked up once")
	assert.Zero(t, reg.calls["not-a-number"], "malformed reg nums are never looked up")

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	require.Len(t, notices[0].Winners, 3)
	assert.Equal(t, "20.07.2004", notices[0].Winners[0].WinnerRegDate)
	assert.Equal(t, "20.07.2004", notices[0].Winners[1].WinnerRegDate)
	assert.Empty(t, notices[0].Winners[2].WinnerRegDate)
}

func TestProcess_RegistryFailureIsSoft(t *testing.T) {
	store := inmem.New()
	reg := newFakeRegistry(nil)
	reg.err = errors.New("registry unavailable")
	n := NewNormalizer(DefaultMapping(), reg, store)

	xml := `<document><id>R-2</id><type>notice_contract_rights</type>
		<winner_list><winner><winner_name>A</winner_name><winner_reg_num>40003026637</winner_reg_num></winner></winner_list>
	</document>`

	require.Equal(t, 1, n.Process(context.Background(), []byte(xml)))

	notices := storedNotices(t, store)
	require.Len(t, notices, 1)
	assert.Empty(t, notices[0].Winners[0].WinnerRegDate)
}

func ptr(f float64) *float64 {
	return &f
}
