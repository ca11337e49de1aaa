package samples

import (
	"fmt"
	"slices"
	"strings"

	"github.com/granito-source/concordion/internal/restclient"
)

// Greeter formats greetings.
type Greeter interface {
	Greet(name string) string
}

// EnglishGreeter is the Greeter bean of the sample application.
type EnglishGreeter struct{}

// Greet implements Greeter.
func (EnglishGreeter) Greet(name string) string {
	return fmt.Sprintf("Hello %s!", name)
}

func expect(got, want string) error {
	if got != want {
		return fmt.Errorf("expected [%s] but was [%s]", want, got)
	}
	return nil
}

func unknown(example string) error {
	return fmt.Errorf("unknown example %q", example)
}

// DemoFixture greets by first name.
type DemoFixture struct{}

// GreetingFor returns the greeting for firstName.
func (DemoFixture) GreetingFor(firstName string) string {
	return fmt.Sprintf("Hello %s!", firstName)
}

// RunExample implements specification.ExampleRunner.
func (f *DemoFixture) RunExample(name string) error {
	switch name {
	case "greeting":
		return expect(f.GreetingFor("Bob"), "Hello Bob!")
	default:
		return unknown(name)
	}
}

// PartialMatchesFixture searches user names by substring.
type PartialMatchesFixture struct {
	usernames map[string]struct{}
}

// NewPartialMatchesFixture creates a fixture with no users.
func NewPartialMatchesFixture() *PartialMatchesFixture {
	return &PartialMatchesFixture{usernames: make(map[string]struct{})}
}

// SetUpUser adds a user name to the system.
func (f *PartialMatchesFixture) SetUpUser(username string) {
	f.usernames[username] = struct{}{}
}

// SearchResultsFor returns the sorted user names containing search.
func (f *PartialMatchesFixture) SearchResultsFor(search string) []string {
	var matches []string
	for u := range f.usernames {
		if strings.Contains(u, search) {
			matches = append(matches, u)
		}
	}
	slices.Sort(matches)
	return matches
}

// RunExample implements specification.ExampleRunner.
func (f *PartialMatchesFixture) RunExample(name string) error {
	for _, u := range []string{"john.lennon", "ringo.starr", "george.harrison", "paul.mccartney"} {
		f.SetUpUser(u)
	}
	switch name {
	case "partial-match":
		return expect(strings.Join(f.SearchResultsFor("arr"), ", "), "george.harrison, ringo.starr")
	case "no-match":
		return expect(strings.Join(f.SearchResultsFor("yoko"), ", "), "")
	default:
		return unknown(name)
	}
}

// Person is a value used by SpikeFixture.
type Person struct {
	FirstName string
	LastName  string
}

// SpikeFixture exercises failing examples.
type SpikeFixture struct{}

// People returns the people known to the fixture.
func (SpikeFixture) People() []Person {
	return []Person{{FirstName: "John", LastName: "Travolta"}}
}

// RunExample implements specification.ExampleRunner.
func (f *SpikeFixture) RunExample(name string) error {
	switch name {
	case "people":
		people := f.People()
		if len(people) != 1 {
			return fmt.Errorf("expected 1 person but was %d", len(people))
		}
		return expect(people[0].FirstName+" "+people[0].LastName, "John Travolta")
	case "broken":
		return expect("Hello John!", "Hello Johnny!")
	default:
		return unknown(name)
	}
}

// GreetingFixture gets its Greeter from the test lifecycle.
type GreetingFixture struct {
	Greeter Greeter `inject:""`
}

// RunExample implements specification.ExampleRunner.
func (f *GreetingFixture) RunExample(name string) error {
	switch name {
	case "greeting":
		return expect(f.Greeter.Greet("Alice"), "Hello Alice!")
	default:
		return unknown(name)
	}
}

// AppDemoFixture runs in the application runtime with injected beans.
type AppDemoFixture struct {
	Greeter Greeter            `inject:""`
	Client  *restclient.Client `inject:""`
}

// RunExample implements specification.ExampleRunner.
func (f *AppDemoFixture) RunExample(name string) error {
	switch name {
	case "greeting":
		return expect(f.Greeter.Greet("Carol"), "Hello Carol!")
	case "port":
		if f.Client.Port() == 0 {
			return fmt.Errorf("rest client port not configured")
		}
		return nil
	default:
		return unknown(name)
	}
}

// AppSpikeFixture runs in the application runtime.
type AppSpikeFixture struct {
	Greeter Greeter `inject:""`
}

// RunExample implements specification.ExampleRunner.
func (f *AppSpikeFixture) RunExample(name string) error {
	switch name {
	case "greeting":
		return expect(f.Greeter.Greet("Dave"), "Hello Dave!")
	default:
		return unknown(name)
	}
}
