package must

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseURL(t *testing.T) {
	URL := ParseURL("https://bouncer.ooni.io/bouncer/net-tests")
	if URL.Scheme != "https" || URL.Host != "bouncer.ooni.io" || URL.Path != "/bouncer/net-tests" {
		t.Fatal("unexpected parsed URL")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := MarshalJSON("foobar")
	if string(data) != "\"foobar\"" {
		t.Fatal("incorrect marshalling")
	}
}

type example struct {
	Name string
	Age  int
}

func TestMarshalAndIndentJSON(t *testing.T) {
	input := &example{Name: "sbs", Age: 40}
	data := MarshalAndIndentJSON(input, "", "    ")
	expected := []byte("{\n    \"Name\": \"sbs\",\n    \"Age\": 40\n}")
	if diff := cmp.Diff(expected, data); diff != "" {
		t.Fatal(diff)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var ex example
	UnmarshalJSON([]byte(`{"Name":"sbs","Age":40}`), &ex)
	if diff := cmp.Diff(example{Name: "sbs", Age: 40}, ex); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteAndReadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.txt")
	WriteFile(filename, []byte("antani"), 0600)
	if data := ReadFile(filename); string(data) != "antani" {
		t.Fatal("did not read the expected content")
	}
	if _, err := os.Stat(filename); err != nil {
		t.Fatal(err)
	}
}
