package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/seenimoa/stockcompare/pkg/models"
)

var errNoCompanyEntered = errors.New("enter at least one company name")

// promptForCompanies asks for one name per slot, pre-filled from prefill.
// Empty slots are allowed as long as one name is given.
func promptForCompanies(prefill []string) ([]string, error) {
	qs := make([]*survey.Question, models.MaxCompanies)
	for i := range qs {
		def := ""
		if i < len(prefill) {
			def = prefill[i]
		}
		qs[i] = &survey.Question{
			Name: fmt.Sprintf("company%d", i+1),
			Prompt: &survey.Input{
				Message: fmt.Sprintf("Company %d:", i+1),
				Help:    "Company name as you would search for it, e.g. Apple. Leave empty to skip.",
				Default: def,
			},
			Transform: survey.TransformString(strings.TrimSpace),
		}
	}

	answers := map[string]interface{}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return nil, err
	}
	return collectNames(answers)
}

// collectNames returns the answered names in slot order.
func collectNames(answers map[string]interface{}) ([]string, error) {
	var names []string
	for i := 1; i <= models.MaxCompanies; i++ {
		v, _ := answers[fmt.Sprintf("company%d", i)].(string)
		if v = strings.TrimSpace(v); v != "" {
			names = append(names, v)
		}
	}
	if len(names) == 0 {
		return nil, errNoCompanyEntered
	}
	return names, nil
}
