package client

import (
	"net/url"
	"strconv"
)

// JobQuery filters the public job search. Zero values are left out.
type JobQuery struct {
	Query    string
	Location string
	JobType  string
	Category string
	// Salary is one of "0-50000", "50000-100000" or "100000+".
	Salary string
	Page   int
	Limit  int
}

func (q JobQuery) ToUrlParams() url.Values {
	params := url.Values{}

	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("query", q.Query)
	set("location", q.Location)
	set("jobType", q.JobType)
	set("category", q.Category)
	set("salary", q.Salary)

	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}
