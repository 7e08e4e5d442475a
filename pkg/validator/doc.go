// Package validator implements the rule evaluator behind form fields: it
// parses compact rule expressions such as "required|min:3" into an ordered
// list of validators and runs them against a value.
//
// # Rule expressions
//
// An expression is a '|'-separated list of rule tokens. A token is a rule
// name optionally followed by ':'-separated arguments:
//
//	required|email
//	required|between:3:20
//	in:draft:published
//	regex:^[a-z]+:[0-9]+$   // regex keeps everything after the first ':'
//
// Parsing is strict. An unknown rule name or a malformed argument list fails
// with a *ParseError that names the token and wraps ErrUnknownRule or
// ErrInvalidRuleArgs, so misconfiguration surfaces when a field is created
// rather than when a user types.
//
// # Kinds
//
// Every evaluation carries the field's declared Kind. Comparison rules (min,
// max, size, between) count characters for strings (after NFC
// normalisation), compare the value for numbers and count entries for file
// lists. A value the rule cannot interpret under the declared kind produces
// a "validation.type" error instead of panicking. Apart from required and
// accepted, rules let empty values pass.
//
// # Evaluation
//
// Evaluate runs all rules in declaration order and never short-circuits.
// Synchronous results are available immediately through Evaluation.Errors;
// rules registered as async run through pkg/async and are merged back into
// declaration order once Evaluation.Done is closed. A validator that panics
// yields a generic error whose Cause matches ErrValidatorFailed.
//
// # Custom rules
//
//	cat := validator.NewCatalogue()
//	_ = cat.RegisterAsync("unique_email", func(ctx context.Context, in validator.Input) *validator.ValidationError {
//	    if taken(ctx, in.Value.(string)) {
//	        return &validator.ValidationError{Message: "is already taken", TranslationKey: "validation.unique"}
//	    }
//	    return nil
//	})
//	rules, err := cat.Parse("required|email|unique_email")
//
// ValidationError keeps the translation-friendly shape (TranslationKey and
// TranslationValues) so messages can be localised by the caller.
package validator
