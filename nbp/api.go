package nbp

import (
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/pit38/pit38/date"
)

/*
	{
	    "table": "A",
	    "currency": "dolar amerykański",
	    "code": "USD",
	    "rates": [
	        {
	            "no": "021/A/NBP/2024",
	            "effectiveDate": "2024-01-30",
	            "mid": 4.0194
	        }
	    ]
	}
*/

// apiURL queries table A rates for a currency over a date range. The API
// caps a single query at 93 days and only serves recent years; the annual
// archives remain the source for full-year runs.
const apiURL = "https://api.nbp.pl/api/exchangerates/rates/a/%s/%s/%s/?format=json"

// FetchRange queries api.nbp.pl for the rates published between two dates
// and merges them into the table. Days without a fixing are simply absent
// from the response.
func (t *Table) FetchRange(currency string, from, to date.Date) error {
	addr := fmt.Sprintf(apiURL, strings.ToLower(currency), from, to)
	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return fmt.Errorf("error in wget %q: %w", currency, err)
	}

	path := "$.rates[:]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("error parsing %q: %q %w", currency, path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return fmt.Errorf("error parsing %q: %q is not a list", currency, path)
	}
	for _, item := range jlist {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day, ok := row["effectiveDate"].(string)
		if !ok {
			continue
		}
		mid, ok := row["mid"].(float64)
		if !ok {
			return fmt.Errorf("rate on %s is not a number: %v", day, row["mid"])
		}
		on, err := date.Parse(day)
		if err != nil {
			return fmt.Errorf("invalid effectiveDate %q: %w", day, err)
		}
		t.Append(on, mid)
	}
	return nil
}
