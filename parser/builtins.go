package parser

import "sort"

type arity struct {
	min, max int // max < 0 means unbounded
}

func (a arity) accepts(n int) bool {
	return n >= a.min && (a.max < 0 || n <= a.max)
}

// builtins are the functions of XQuery 1.0 and XPath 2.0 Functions and
// Operators, by local name in the fn namespace.
var builtins = map[string]arity{
	"abs":                         {1, 1},
	"adjust-date-to-timezone":     {1, 2},
	"adjust-dateTime-to-timezone": {1, 2},
	"adjust-time-to-timezone":     {1, 2},
	"avg":                         {1, 1},
	"base-uri":                    {0, 1},
	"boolean":                     {1, 1},
	"ceiling":                     {1, 1},
	"codepoint-equal":             {2, 2},
	"codepoints-to-string":        {1, 1},
	"collection":                  {0, 1},
	"compare":                     {2, 3},
	"concat":                      {2, -1},
	"contains":                    {2, 3},
	"count":                       {1, 1},
	"current-date":                {0, 0},
	"current-dateTime":            {0, 0},
	"current-time":                {0, 0},
	"data":                        {1, 1},
	"dateTime":                    {2, 2},
	"day-from-date":               {1, 1},
	"day-from-dateTime":           {1, 1},
	"days-from-duration":          {1, 1},
	"deep-equal":                  {2, 3},
	"default-collation":           {0, 0},
	"distinct-values":             {1, 2},
	"doc":                         {1, 1},
	"doc-available":               {1, 1},
	"document-uri":                {1, 1},
	"empty":                       {1, 1},
	"encode-for-uri":              {1, 1},
	"ends-with":                   {2, 3},
	"error":                       {0, 3},
	"escape-html-uri":             {1, 1},
	"exactly-one":                 {1, 1},
	"exists":                      {1, 1},
	"false":                       {0, 0},
	"floor":                       {1, 1},
	"hours-from-dateTime":         {1, 1},
	"hours-from-duration":         {1, 1},
	"hours-from-time":             {1, 1},
	"id":                          {1, 2},
	"idref":                       {1, 2},
	"implicit-timezone":           {0, 0},
	"in-scope-prefixes":           {1, 1},
	"index-of":                    {2, 3},
	"insert-before":               {3, 3},
	"iri-to-uri":                  {1, 1},
	"lang":                        {1, 2},
	"last":                        {0, 0},
	"local-name":                  {0, 1},
	"local-name-from-QName":       {1, 1},
	"lower-case":                  {1, 1},
	"matches":                     {2, 3},
	"max":                         {1, 2},
	"min":                         {1, 2},
	"minutes-from-dateTime":       {1, 1},
	"minutes-from-duration":       {1, 1},
	"minutes-from-time":           {1, 1},
	"month-from-date":             {1, 1},
	"month-from-dateTime":         {1, 1},
	"months-from-duration":        {1, 1},
	"name":                        {0, 1},
	"namespace-uri":               {0, 1},
	"namespace-uri-for-prefix":    {2, 2},
	"namespace-uri-from-QName":    {1, 1},
	"nilled":                      {1, 1},
	"node-name":                   {1, 1},
	"normalize-space":             {0, 1},
	"normalize-unicode":           {1, 2},
	"not":                         {1, 1},
	"number":                      {0, 1},
	"one-or-more":                 {1, 1},
	"position":                    {0, 0},
	"prefix-from-QName":           {1, 1},
	"QName":                       {2, 2},
	"remove":                      {2, 2},
	"replace":                     {3, 4},
	"resolve-QName":               {2, 2},
	"resolve-uri":                 {1, 2},
	"reverse":                     {1, 1},
	"root":                        {0, 1},
	"round":                       {1, 1},
	"round-half-to-even":          {1, 2},
	"seconds-from-dateTime":       {1, 1},
	"seconds-from-duration":       {1, 1},
	"seconds-from-time":           {1, 1},
	"starts-with":                 {2, 3},
	"static-base-uri":             {0, 0},
	"string":                      {0, 1},
	"string-join":                 {2, 2},
	"string-length":               {0, 1},
	"string-to-codepoints":        {1, 1},
	"subsequence":                 {2, 3},
	"substring":                   {2, 3},
	"substring-after":             {2, 3},
	"substring-before":            {2, 3},
	"sum":                         {1, 2},
	"timezone-from-date":          {1, 1},
	"timezone-from-dateTime":      {1, 1},
	"timezone-from-time":          {1, 1},
	"tokenize":                    {2, 3},
	"trace":                       {2, 2},
	"translate":                   {3, 3},
	"true":                        {0, 0},
	"unordered":                   {1, 1},
	"upper-case":                  {1, 1},
	"year-from-date":              {1, 1},
	"year-from-dateTime":          {1, 1},
	"years-from-duration":         {1, 1},
	"zero-or-one":                 {1, 1},
}

// atomicTypes are the built-in atomic types of the xs namespace.
var atomicTypes = map[string]bool{
	"anyAtomicType":      true,
	"untypedAtomic":      true,
	"string":             true,
	"normalizedString":   true,
	"token":              true,
	"language":           true,
	"NMTOKEN":            true,
	"Name":               true,
	"NCName":             true,
	"ID":                 true,
	"IDREF":              true,
	"ENTITY":             true,
	"boolean":            true,
	"decimal":            true,
	"integer":            true,
	"nonPositiveInteger": true,
	"negativeInteger":    true,
	"long":               true,
	"int":                true,
	"short":              true,
	"byte":               true,
	"nonNegativeInteger": true,
	"unsignedLong":       true,
	"unsignedInt":        true,
	"unsignedShort":      true,
	"unsignedByte":       true,
	"positiveInteger":    true,
	"float":              true,
	"double":             true,
	"duration":           true,
	"dayTimeDuration":    true,
	"yearMonthDuration":  true,
	"dateTime":           true,
	"date":               true,
	"time":               true,
	"gYearMonth":         true,
	"gYear":              true,
	"gMonthDay":          true,
	"gDay":               true,
	"gMonth":             true,
	"hexBinary":          true,
	"base64Binary":       true,
	"anyURI":             true,
	"QName":              true,
	"NOTATION":           true,
}

// abstractTypes cannot be cast to or constructed.
var abstractTypes = map[string]bool{
	"anyAtomicType": true,
	"NOTATION":      true,
}

// complexTypes may name the type of an element or attribute test in
// addition to the atomic types.
var complexTypes = map[string]bool{
	"anyType":       true,
	"anySimpleType": true,
	"untyped":       true,
}

func builtinNames() []string {
	return sortedKeys(builtins)
}

func atomicTypeNames() []string {
	return sortedKeys(atomicTypes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
