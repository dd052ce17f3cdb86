package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

const sampleRatesFeed = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="01.09.2026" name="Foreign Currency Market">
	<Valute ID="R01235">
		<NumCode>840</NumCode>
		<CharCode>USD</CharCode>
		<Nominal>1</Nominal>
		<Name>US Dollar</Name>
		<Value>92,5000</Value>
	</Valute>
	<Valute ID="R01239">
		<NumCode>978</NumCode>
		<CharCode>EUR</CharCode>
		<Nominal>1</Nominal>
		<Name>Euro</Name>
		<Value>100,0000</Value>
	</Valute>
	<Valute ID="R01820">
		<NumCode>392</NumCode>
		<CharCode>JPY</CharCode>
		<Nominal>100</Nominal>
		<Name>Japanese Yen</Name>
		<Value>62,0000</Value>
	</Valute>
</ValCurs>`

func TestParseRatesFeed(t *testing.T) {
	rates, err := parseRatesFeed([]byte(sampleRatesFeed))
	if err != nil {
		t.Fatalf("parseRatesFeed: %v", err)
	}

	tests := []struct {
		code string
		want string
	}{
		{"RUB", "1"},
		{"USD", "92.5"},
		{"EUR", "100"},
		// 100 JPY = 62 RUB, so one yen is 0.62
		{"JPY", "0.62"},
	}

	for _, tt := range tests {
		got, ok := rates[tt.code]
		if !ok {
			t.Errorf("rate for %s missing", tt.code)
			continue
		}
		if want, _ := decimal.NewFromString(tt.want); !got.Equal(want) {
			t.Errorf("%s: got %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestParseRatesFeedSkipsMalformedEntries(t *testing.T) {
	feed := `<ValCurs>
	<Valute><CharCode>USD</CharCode><Nominal>1</Nominal><Value>92,5</Value></Valute>
	<Valute><CharCode>BAD</CharCode><Nominal>1</Nominal><Value>not-a-number</Value></Valute>
	<Valute><Nominal>1</Nominal><Value>10,0</Value></Valute>
</ValCurs>`

	rates, err := parseRatesFeed([]byte(feed))
	if err != nil {
		t.Fatalf("parseRatesFeed: %v", err)
	}

	if _, ok := rates["BAD"]; ok {
		t.Error("malformed value should be skipped")
	}
	if _, ok := rates["USD"]; !ok {
		t.Error("valid entry should survive malformed neighbors")
	}
}

func TestParseRatesFeedEmpty(t *testing.T) {
	if _, err := parseRatesFeed([]byte(`<ValCurs></ValCurs>`)); err == nil {
		t.Fatal("expected error for a feed without currencies")
	}
}

func TestParseRatesFeedInvalidXML(t *testing.T) {
	if _, err := parseRatesFeed([]byte(`{"not":"xml"`)); err == nil {
		t.Fatal("expected error for invalid XML")
	}
}
