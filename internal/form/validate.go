// internal/form/validate.go
//
// Formhook – Forms subsystem: validation and normalization.
//
// Context
//   Each field has one pure rule function that returns either its normalized
//   value or a FieldError.  Validate runs every rule, collects the failures,
//   and only when the set is empty reads the avatar payload and builds the
//   ValidatedForm.
//
// Workflow
//   •  avatar    – exactly one file, size ≤ MaxAvatarBytes.
//   •  name      – non-blank, trimmed, first letter of each word upper-cased.
//   •  email     – non-blank, valid syntax, “@gmail.com” suffix.
//   •  password  – at least MinPasswordLength characters.
//   •  techs     – at least MinTechs rows; per row a non-blank title and an
//                  integer knowledge score in [MinKnowledge, MaxKnowledge].
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Messages shown to the user, one per rule.
const (
	msgAvatarMissing  = "Select an avatar image."
	msgAvatarMultiple = "Select exactly one avatar image."
	msgAvatarSize     = "The avatar must be 5MB or smaller."
	msgNameEmpty      = "Name is required."
	msgEmailEmpty     = "Email is required."
	msgEmailFormat    = "Invalid email format."
	msgEmailDomain    = "Only @" + AllowedEmailDomain + " addresses are accepted."
	msgPasswordLength = "Password must have at least 6 characters."
	msgTechsCount     = "Add at least 2 technologies."
	msgTitleEmpty     = "Title is required."
	msgKnowledgeRange = "Knowledge must be a whole number from 1 to 100."
)

// v is the package-level validator used for the email syntax rule.
var v = validator.New()

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks raw against every field rule.  On failure the error is a
// *ValidationError holding one message per failing path.  A non-validation
// error is only possible after all rules passed, when the avatar payload
// cannot be read.
func Validate(raw SubmittedForm) (ValidatedForm, error) {
	var errs ErrorSet

	avatar, _ := checkAvatar(raw.Avatar, &errs)
	name, _ := checkName(raw.Name, &errs)
	email, _ := checkEmail(raw.Email, &errs)
	password, _ := checkPassword(raw.Password, &errs)
	techs, _ := checkTechs(raw.Techs, &errs)

	if len(errs) > 0 {
		return ValidatedForm{}, &ValidationError{Errors: errs}
	}

	data, err := readAvatar(avatar)
	if err != nil {
		return ValidatedForm{}, err
	}
	if int64(len(data)) > MaxAvatarBytes {
		// Handle reported a smaller size than its payload.
		errs.add("avatar", KindSize, msgAvatarSize)
		return ValidatedForm{}, &ValidationError{Errors: errs}
	}

	return ValidatedForm{
		Avatar:   Avatar{Name: avatar.Name(), Size: len(data), Data: data},
		Name:     name,
		Email:    email,
		Password: password,
		Techs:    techs,
	}, nil
}

// -----------------------------------------------------------------------------
// Field rules
// -----------------------------------------------------------------------------

func checkAvatar(files []File, errs *ErrorSet) (File, bool) {
	switch {
	case len(files) > 1:
		errs.add("avatar", KindCount, msgAvatarMultiple)
		return nil, false
	case len(files) == 0 || files[0] == nil:
		errs.add("avatar", KindEmpty, msgAvatarMissing)
		return nil, false
	}
	if files[0].Size() > MaxAvatarBytes {
		errs.add("avatar", KindSize, msgAvatarSize)
		return nil, false
	}
	return files[0], true
}

func checkName(raw string, errs *ErrorSet) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		errs.add("name", KindEmpty, msgNameEmpty)
		return "", false
	}
	return capitalizeWords(trimmed), true
}

func checkEmail(raw string, errs *ErrorSet) (string, bool) {
	switch {
	case strings.TrimSpace(raw) == "":
		errs.add("email", KindEmpty, msgEmailEmpty)
	case v.Var(raw, "email") != nil:
		errs.add("email", KindFormat, msgEmailFormat)
	case !strings.HasSuffix(raw, "@"+AllowedEmailDomain):
		errs.add("email", KindDomain, msgEmailDomain)
	default:
		return raw, true
	}
	return "", false
}

func checkPassword(raw string, errs *ErrorSet) (string, bool) {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		errs.add("password", KindLength, msgPasswordLength)
		return "", false
	}
	return raw, true
}

// checkTechs evaluates the row rules even when the count rule fails so the
// user sees every problem in one pass.
func checkTechs(rows []RawTech, errs *ErrorSet) ([]Tech, bool) {
	ok := true
	if len(rows) < MinTechs {
		errs.add("techs", KindCount, msgTechsCount)
		ok = false
	}

	out := make([]Tech, 0, len(rows))
	for i, row := range rows {
		prefix := fmt.Sprintf("techs[%d]", i)

		if strings.TrimSpace(row.Title) == "" {
			errs.add(prefix+".title", KindEmpty, msgTitleEmpty)
			ok = false
		}
		n, valid := coerceKnowledge(row.Knowledge)
		if !valid || n < MinKnowledge || n > MaxKnowledge {
			errs.add(prefix+".knowledge", KindRange, msgKnowledgeRange)
			ok = false
		}
		out = append(out, Tech{Title: row.Title, Knowledge: n})
	}
	if !ok {
		return nil, false
	}
	return out, true
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// capitalizeWords upper-cases the first rune of every single-space separated
// token.  Empty tokens (double spaces) survive, so inner spacing is kept.
func capitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// coerceKnowledge turns the raw knowledge value into an int.  Only whole
// numbers are accepted; “12.5”, 12.5, and "" all fail.
func coerceKnowledge(raw any) (int, bool) {
	switch x := raw.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return clampInt64(x)
	case uint:
		return clampUint64(uint64(x))
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return clampUint64(uint64(x))
	case uint64:
		return clampUint64(x)
	case float32:
		return wholeFloat(float64(x))
	case float64:
		return wholeFloat(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return clampInt64(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func clampInt64(n int64) (int, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func clampUint64(n uint64) (int, bool) {
	if n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func wholeFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// readAvatar loads at most one byte past the limit so an oversized payload
// is detected without buffering all of it.
func readAvatar(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open avatar %q: %w", f.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar %q: %w", f.Name(), err)
	}
	return data, nil
}
