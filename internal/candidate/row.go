package candidate

import "strings"

// Row is a single raw row from an upstream candidate export, keyed by column
// header. Exports come in two header conventions: the current English one and
// the legacy Indonesian one. All access goes through column pairs so the rest
// of the code never branches on the convention.
type Row map[string]string

type columnPair struct {
	primary string
	legacy  string
}

var (
	colFirstName      = columnPair{"First Name", "Nama Depan"}
	colLastName       = columnPair{"Last Name", "Nama Belakang"}
	colEmail          = columnPair{"Email Address", "Alamat Email"}
	colPhone          = columnPair{"Mobile Number", "Nomor Telepon"}
	colResumeLink     = columnPair{"Resume Link", "Tautan Resume"}
	colProfileLink    = columnPair{"Kalibrr Profile Link", "Profil Kalibrr"}
	colApplication    = columnPair{"Job Application Link", "Tautan Lamaran"}
	colAppliedAt      = columnPair{"Application Date", "Tanggal Lamaran"}
	colLatestJob      = columnPair{"Latest Job Title", "Jabatan Pekerjaan Terakhir"}
	colLatestCompany  = columnPair{"Latest Company", "Perusahaan Terakhir"}
	colLatestJobStart = columnPair{"Latest Job Starting Period", "Periode Mulai Kerja"}
	colLatestJobEnd   = columnPair{"Latest Job Ending Period", "Periode Akhir Kerja"}
	colLatestJobDesc  = columnPair{"Latest Job Description", "Deskripsi Pekerjaan"}
	colLatestEdu      = columnPair{"Latest Educational Attainment", "Tingkat Pendidikan Tertinggi"}
	colLatestSchool   = columnPair{"Latest School/University", "Sekolah/Universitas"}
	colLatestMajor    = columnPair{"Latest Major/Course", "Jurusan/Program Studi"}
	colLatestEduStart = columnPair{"Latest Education Starting Period", "Periode Mulai Studi"}
	colLatestEduEnd   = columnPair{"Latest Education Ending Period", "Periode Akhir Studi"}
)

func prevJobColumns(n string) (title, company, start, end columnPair) {
	title = columnPair{"Previous Job Title (" + n + ")", "Jabatan Pekerjaan Sebelumnya (" + n + ")"}
	company = columnPair{"Previous Company (" + n + ")", "Perusahaan Sebelumnya (" + n + ")"}
	start = columnPair{"Previous Job Starting Period (" + n + ")", "Periode Mulai Kerja (" + n + ")"}
	end = columnPair{"Previous Job Ending Period (" + n + ")", "Periode Akhir Kerja (" + n + ")"}
	return title, company, start, end
}

func prevEduColumns(n string) (level, school, major columnPair) {
	level = columnPair{"Previous Educational Attainment (" + n + ")", "Tingkat Pendidikan Sebelumnya (" + n + ")"}
	school = columnPair{"Previous School/University (" + n + ")", "Sekolah/Universitas (" + n + ")"}
	major = columnPair{"Previous Major/Course (" + n + ")", "Jurusan/Program Studi (" + n + ")"}
	return level, school, major
}

// value resolves a logical field against the row, preferring the primary
// header and falling back to the legacy one. Whitespace-only cells are
// treated as absent; this is the single place where "empty means missing"
// is interpreted.
func (r Row) value(col columnPair) string {
	if v := strings.TrimSpace(r[col.primary]); v != "" {
		return v
	}
	return strings.TrimSpace(r[col.legacy])
}

// FromRow converts a raw export row into a normalized Record. Missing fields
// come out as empty strings; downstream code never re-trims.
func FromRow(r Row) Record {
	rec := Record{
		FirstName:      r.value(colFirstName),
		LastName:       r.value(colLastName),
		Email:          r.value(colEmail),
		Phone:          r.value(colPhone),
		ResumeURL:      r.value(colResumeLink),
		ProfileURL:     r.value(colProfileLink),
		ApplicationURL: r.value(colApplication),
		AppliedAt:      r.value(colAppliedAt),
	}

	if title := r.value(colLatestJob); title != "" {
		rec.Work = append(rec.Work, Job{
			Title:       title,
			Company:     r.value(colLatestCompany),
			Start:       r.value(colLatestJobStart),
			End:         r.value(colLatestJobEnd),
			Description: r.value(colLatestJobDesc),
		})
	}
	for _, n := range []string{"1", "2"} {
		title, company, start, end := prevJobColumns(n)
		if t := r.value(title); t != "" {
			rec.Work = append(rec.Work, Job{
				Title:   t,
				Company: r.value(company),
				Start:   r.value(start),
				End:     r.value(end),
			})
		}
	}

	if level := r.value(colLatestEdu); level != "" {
		rec.Education = append(rec.Education, School{
			Level:       level,
			Institution: r.value(colLatestSchool),
			Major:       r.value(colLatestMajor),
			Start:       r.value(colLatestEduStart),
			End:         r.value(colLatestEduEnd),
		})
	}
	for _, n := range []string{"1", "2"} {
		level, school, major := prevEduColumns(n)
		if l := r.value(level); l != "" {
			rec.Education = append(rec.Education, School{
				Level:       l,
				Institution: r.value(school),
				Major:       r.value(major),
			})
		}
	}

	return rec
}
