package wizard

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/config"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/properties"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
)

// Apply validates a prepared answers table and publishes it to s: fields
// first, then required settings in canonical order, then optional settings
// sorted by key. Nothing is published when any answer is invalid.
func Apply(answers config.Answers, s *store.Store, packages PackageLister) error {
	if s == nil {
		return errors.New(messages.WizardStoreRequired)
	}

	type fieldAnswer struct {
		field    store.Field
		raw      string
		validate func(string) (string, error)
		value    string
	}
	fields := []*fieldAnswer{
		{field: store.TargetDirectory, raw: answers.Location, validate: store.ValidateTargetDirectory},
		{field: store.Version, raw: answers.Version, validate: store.ValidateVersion},
		{field: store.DeploymentName, raw: answers.Name, validate: store.ValidateDeploymentName},
		{field: store.PackageName, raw: answers.Package, validate: store.ValidatePackageName},
	}
	for _, f := range fields {
		if f.raw == "" {
			return fmt.Errorf(messages.WizardAnswerMissingFmt, f.field)
		}
		v, err := f.validate(f.raw)
		if err != nil {
			return fmt.Errorf(messages.WizardAnswerInvalidFmt, err)
		}
		f.value = v
	}

	settings, err := orderedSettings(answers.Settings)
	if err != nil {
		return err
	}

	if packages != nil {
		names, err := packages.List()
		if err != nil {
			return fmt.Errorf(messages.WizardListPackagesFmt, err)
		}
		pkg := fields[len(fields)-1].value
		if !slices.Contains(names, pkg) {
			return fmt.Errorf(messages.WizardUnknownPackageFmt, pkg)
		}
	}

	for _, f := range fields[:3] {
		if err := s.Set(f.field, f.value); err != nil {
			return fmt.Errorf(messages.WizardPublishFailedFmt, f.field, err)
		}
	}
	for _, e := range settings {
		if err := s.SetSetting(e.Key, e.Value); err != nil {
			return fmt.Errorf(messages.WizardPublishFailedFmt, e.Key, err)
		}
	}
	s.FinalizeSettings()
	pkg := fields[3]
	if err := s.Set(pkg.field, pkg.value); err != nil {
		return fmt.Errorf(messages.WizardPublishFailedFmt, pkg.field, err)
	}
	return nil
}

// orderedSettings validates raw answers and orders them required first.
func orderedSettings(raw map[string]any) ([]properties.Entry, error) {
	var out []properties.Entry
	for _, key := range properties.Required {
		v, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf(messages.WizardAnswerMissingFmt, "settings."+key)
		}
		e, err := store.ValidateSetting(key, formatAnswer(v))
		if err != nil {
			return nil, fmt.Errorf(messages.WizardAnswerInvalidFmt, err)
		}
		out = append(out, e)
	}

	optional := make([]string, 0, len(raw))
	for key := range raw {
		if !properties.IsRequired(key) {
			optional = append(optional, key)
		}
	}
	sort.Strings(optional)
	for _, key := range optional {
		e, err := store.ValidateSetting(key, formatAnswer(raw[key]))
		if err != nil {
			return nil, fmt.Errorf(messages.WizardAnswerInvalidFmt, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// formatAnswer renders a decoded TOML value the way server.properties spells it.
func formatAnswer(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
