// Package testutil holds listeners, locators and fakes shared by tests.
package testutil
