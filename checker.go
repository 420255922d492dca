package main

// Rewriter is an extra rewrite step run after normalization.
type Rewriter interface {
	Rewrite(sql string) (string, error)
}

// Checker is the per-statement pipeline: normalize, rewrite, classify.
type Checker struct {
	normalizer *Normalizer
	rewriter   Rewriter
	classifier *Classifier
}

// NewChecker builds a checker; rewriter may be nil.
func NewChecker(normalizer *Normalizer, rewriter Rewriter, classifier *Classifier) *Checker {
	return &Checker{
		normalizer: normalizer,
		rewriter:   rewriter,
		classifier: classifier,
	}
}

// Prepare returns the text handed to the parser. A rewrite failure is
// reported as an error.
func (c *Checker) Prepare(raw string) (string, error) {
	sql := c.normalizer.Normalize(raw)
	if c.rewriter == nil {
		return sql, nil
	}
	return c.rewriter.Rewrite(sql)
}

func (c *Checker) Check(raw string) (Classification, error) {
	sql, err := c.Prepare(raw)
	if err != nil {
		return ParseError, err
	}
	return c.classifier.Classify(sql)
}

func (c *Checker) Joins(raw string) ([]JoinInfo, error) {
	sql, err := c.Prepare(raw)
	if err != nil {
		return nil, err
	}
	return c.classifier.CollectJoins(sql)
}
