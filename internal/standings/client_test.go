package standings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gridfan/paddock/pkg/config"
)

const driverStandingsJSON = `{
  "MRData": {
    "StandingsTable": {
      "StandingsLists": [
        {
          "DriverStandings": [
            {
              "position": "1",
              "points": "437.5",
              "wins": "9",
              "Driver": {"givenName": "Max", "familyName": "Verstappen"},
              "Constructors": [{"name": "Red Bull"}]
            },
            {
              "position": "2",
              "points": "374",
              "wins": "7",
              "Driver": {"givenName": "Lando", "familyName": "Norris"},
              "Constructors": [{"name": "McLaren"}]
            }
          ]
        }
      ]
    }
  }
}`

const constructorStandingsJSON = `{
  "MRData": {
    "StandingsTable": {
      "StandingsLists": [
        {
          "ConstructorStandings": [
            {
              "position": "1",
              "points": "666",
              "wins": "12",
              "Constructor": {"name": "McLaren", "nationality": "British"}
            }
          ]
        }
      ]
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&config.StandingsConfig{
		BaseURL:  srv.URL,
		Season:   "current",
		CacheTTL: time.Minute,
	}, nil)
}

func TestDriverStandings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current/driverStandings.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(driverStandingsJSON))
	})

	standings, err := client.DriverStandings(context.Background())
	if err != nil {
		t.Fatalf("DriverStandings() error: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("got %d standings, want 2", len(standings))
	}

	first := standings[0]
	if first.Position != 1 || first.Driver != "Max Verstappen" || first.Team != "Red Bull" {
		t.Errorf("unexpected first standing: %+v", first)
	}
	if first.Points != 437.5 {
		t.Errorf("Points = %v, want 437.5", first.Points)
	}
}

func TestConstructorStandings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(constructorStandingsJSON))
	})

	standings, err := client.ConstructorStandings(context.Background())
	if err != nil {
		t.Fatalf("ConstructorStandings() error: %v", err)
	}
	if len(standings) != 1 {
		t.Fatalf("got %d standings, want 1", len(standings))
	}
	if standings[0].Team != "McLaren" || standings[0].Nationality != "British" {
		t.Errorf("unexpected standing: %+v", standings[0])
	}
}

func TestDriverStandingsMalformedNumbers(t *testing.T) {
	const malformedJSON = `{
	  "MRData": {
	    "StandingsTable": {
	      "StandingsLists": [
	        {
	          "DriverStandings": [
	            {
	              "position": "P1",
	              "points": "n/a",
	              "wins": "2",
	              "Driver": {"givenName": "Oscar", "familyName": "Piastri"},
	              "Constructors": [{"name": "McLaren"}]
	            },
	            {
	              "position": "2",
	              "points": "87",
	              "wins": "1",
	              "Driver": {"givenName": "George", "familyName": "Russell"},
	              "Constructors": [{"name": "Mercedes"}]
	            }
	          ]
	        }
	      ]
	    }
	  }
	}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(malformedJSON))
	})

	// A malformed row degrades to zero values; the rest of the response
	// is still served.
	standings, err := client.DriverStandings(context.Background())
	if err != nil {
		t.Fatalf("DriverStandings() error: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("got %d standings, want 2", len(standings))
	}
	if standings[0].Position != 0 || standings[0].Points != 0 {
		t.Errorf("malformed row = %+v, want zero position and points", standings[0])
	}
	if standings[1].Position != 2 || standings[1].Points != 87 {
		t.Errorf("well-formed row = %+v, want 2/87", standings[1])
	}
}

func TestWireNumbersKeepFirstError(t *testing.T) {
	var nums wireNumbers

	if got := nums.atoi("12"); got != 12 {
		t.Errorf("atoi(12) = %d", got)
	}
	if nums.err != nil {
		t.Fatalf("err set after valid parse: %v", nums.err)
	}

	if got := nums.atoi("DNF"); got != 0 {
		t.Errorf("atoi(DNF) = %d, want 0", got)
	}
	first := nums.err
	if first == nil {
		t.Fatal("err not recorded for malformed int")
	}

	nums.atof("also bad")
	if nums.err != first {
		t.Errorf("err = %v, want the first failure kept", nums.err)
	}

	if got := nums.atof("25.5"); got != 25.5 {
		t.Errorf("atof(25.5) = %v", got)
	}
}

func TestGetJSONRetries(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(driverStandingsJSON))
	})

	if _, err := client.DriverStandings(context.Background()); err != nil {
		t.Fatalf("DriverStandings() should succeed after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
}
